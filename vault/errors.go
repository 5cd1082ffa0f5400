package vault

import "fmt"

type (
	UserExists struct {
		Email string
	}

	UserNotFound struct {
		Field string
		Value string
	}

	InvalidField struct {
		Name string
	}
)

func (u UserExists) Error() string {
	return fmt.Sprintf("user %v already exists", u.Email)
}

func (u UserNotFound) Error() string {
	return fmt.Sprintf("no user with %v = %v", u.Field, u.Value)
}

func (i InvalidField) Error() string {
	return fmt.Sprintf("%v is not a valid user field", i.Name)
}

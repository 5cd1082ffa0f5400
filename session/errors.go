package session

import (
	"errors"
	"fmt"
)

type (
	InvalidArgument struct {
		Name   string
		Reason string
	}

	NotFound struct {
		Field Field
		Value string
	}
)

func (i InvalidArgument) Error() string {
	return fmt.Sprintf("session: invalid argument %v, %v", i.Name, i.Reason)
}

func (n NotFound) Error() string {
	return fmt.Sprintf("session: no record with %v = %v", n.Field, n.Value)
}

func IsNotFound(err error) bool {
	var nf NotFound
	return errors.As(err, &nf)
}

func invalidField(f Field) InvalidArgument {
	return InvalidArgument{Name: "field", Reason: fmt.Sprintf("%q cannot be used as a query field", string(f))}
}

// CheckField returns an InvalidArgument error for fields a Store cannot
// be queried by.
func CheckField(f Field) error {
	if !f.Valid() {
		return invalidField(f)
	}
	return nil
}

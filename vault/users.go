package vault

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

type (
	User struct {
		ID             string
		Email          string
		HashedPassword string
		// ResetToken is empty unless a password reset is pending
		ResetToken string
		CreatedAt  time.Time
	}
)

var (
	// fields accepted by FindUserBy, mapped to their columns
	queryableUserFields = map[string]string{
		"id":          "user_id",
		"email":       "email",
		"reset_token": "reset_token",
	}
	updatableUserFields = map[string]string{
		"email":           "email",
		"hashed_password": "hashed_password",
		"reset_token":     "reset_token",
	}
)

// AddUser registers a new user, emails are unique ignoring ASCII case.
func (c *Control) AddUser(ctx context.Context, email, hashedPassword string) (User, error) {
	u := User{
		ID:             uuid.NewString(),
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now().UTC(),
	}
	_, err := c.db.ExecContext(ctx, `insert into users(user_id, email, hashed_password, created_at) values (?, ?, ?, ?)`,
		u.ID, u.Email, u.HashedPassword, u.CreatedAt.UnixNano())
	if isUniqueViolation(err) {
		return User{}, UserExists{Email: email}
	} else if err != nil {
		return User{}, fmt.Errorf("unable to add user %v, cause %w", email, err)
	}
	return u, nil
}

// FindUserBy returns the first user whose field equals value. Valid fields
// are id, email and reset_token.
func (c *Control) FindUserBy(ctx context.Context, field, value string) (User, error) {
	column, ok := queryableUserFields[field]
	if !ok {
		return User{}, InvalidField{Name: field}
	}
	var u User
	var token sql.NullString
	var created int64
	err := c.db.QueryRowContext(ctx, fmt.Sprintf(`select user_id, email, hashed_password, reset_token, created_at
	from users where %v = ? limit 1`, column), value).Scan(&u.ID, &u.Email, &u.HashedPassword, &token, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, UserNotFound{Field: field, Value: value}
	} else if err != nil {
		return User{}, fmt.Errorf("unable to find user by %v, cause %w", field, err)
	}
	u.ResetToken = token.String
	u.CreatedAt = time.Unix(0, created).UTC()
	return u, nil
}

// UpdateUser changes the given columns of user id. A nil or empty
// reset_token clears it.
func (c *Control) UpdateUser(ctx context.Context, id string, changes map[string]interface{}) error {
	if len(changes) == 0 {
		return nil
	}
	names := make([]string, 0, len(changes))
	for name := range changes {
		if _, ok := updatableUserFields[name]; !ok {
			return InvalidField{Name: name}
		}
		names = append(names, name)
	}
	sort.Strings(names)
	sets := make([]string, 0, len(names))
	args := make([]interface{}, 0, len(names)+1)
	for _, name := range names {
		sets = append(sets, fmt.Sprintf("%v = ?", updatableUserFields[name]))
		args = append(args, columnValue(name, changes[name]))
	}
	args = append(args, id)
	res, err := c.db.ExecContext(ctx, fmt.Sprintf(`update users set %v where user_id = ?`, strings.Join(sets, ", ")), args...)
	if isUniqueViolation(err) {
		return UserExists{Email: fmt.Sprint(changes["email"])}
	} else if err != nil {
		return fmt.Errorf("unable to update user %v, cause %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to update user %v, cause %w", id, err)
	} else if n == 0 {
		return UserNotFound{Field: "id", Value: id}
	}
	return nil
}

func columnValue(name string, v interface{}) interface{} {
	if name != "reset_token" {
		return v
	}
	if s, ok := v.(string); v == nil || (ok && s == "") {
		return nil
	}
	return v
}

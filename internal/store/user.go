package store

import "database/sql"

const userColumns = `id, name, email, avatar, status, last_seen_at, location, age, height_cm, bio`

// ListUsers returns the full directory in seed order.
func (db *DB) ListUsers() ([]User, error) {
	rows, err := db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanUsers(rows)
}

// GetUser returns a directory user by id, or nil if absent.
func (db *DB) GetUser(id string) (*User, error) {
	return db.getUser(`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetUserByEmail returns a directory user by email, or nil if absent.
func (db *DB) GetUserByEmail(email string) (*User, error) {
	return db.getUser(`SELECT `+userColumns+` FROM users WHERE email = ? COLLATE NOCASE`, email)
}

// SearchUsers returns directory users whose name or email contains query,
// case-insensitively. excludeID filters out the signed-in user.
func (db *DB) SearchUsers(query, excludeID string) ([]User, error) {
	pattern := "%" + query + "%"
	rows, err := db.Query(`
		SELECT `+userColumns+`
		FROM users
		WHERE id != ?
		  AND (name LIKE ? OR email LIKE ?)
		ORDER BY rowid`,
		excludeID, pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanUsers(rows)
}

// UserCount returns the directory size.
func (db *DB) UserCount() (int64, error) {
	var count int64
	err := db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

func (db *DB) getUser(query string, arg any) (*User, error) {
	row := db.QueryRow(query, arg)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(r rowScanner) (*User, error) {
	var u User
	if err := r.Scan(&u.ID, &u.Name, &u.Email, &u.Avatar, &u.Status,
		&u.LastSeenAt, &u.Location, &u.Age, &u.HeightCM, &u.Bio); err != nil {
		return nil, err
	}
	return &u, nil
}

func scanUsers(rows *sql.Rows) ([]User, error) {
	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

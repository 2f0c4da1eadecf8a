package user

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	log "github.com/sirupsen/logrus"
)

type Repo interface {
	CreateUser(ctx context.Context, user User) (int, error)
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	UpdateUser(ctx context.Context, userId int, user User) (User, error)
	DeleteUser(ctx context.Context, id int) error
	GetAllUsers(ctx context.Context) ([]User, error)
}

type UserRepoImpl struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepoImpl {
	return &UserRepoImpl{db: db}
}

func (u *UserRepoImpl) CreateUser(ctx context.Context, user User) (int, error) {
	query := `INSERT INTO users (uid, email, first_name, last_name, currency) VALUES (?, ?, ?, ?, ?) RETURNING id`
	var id int
	err := u.db.QueryRowContext(ctx, query,
		user.Uid,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Currency,
	).Scan(&id)
	if err != nil {
		log.Errorf("failed to create user: %v", err)
		return 0, err
	}
	return id, nil
}

func (u *UserRepoImpl) GetUser(ctx context.Context, id int) (User, error) {
	query := `SELECT id, uid, email, first_name, last_name, currency FROM users WHERE id = ?`
	var user User
	err := u.db.QueryRowContext(ctx, query, id).
		Scan(
			&user.Id,
			&user.Uid,
			&user.Email,
			&user.FirstName,
			&user.LastName,
			&user.Currency,
		)
	if errors.Is(err, sql.ErrNoRows) {
		log.Errorf("user with id %d not found: %v", id, err)
		return User{}, err
	} else if err != nil {
		log.Errorf("failed to get user: %v", err)
		return User{}, err
	}
	return user, nil
}

func (u *UserRepoImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	query := `SELECT id, uid, email, first_name, last_name, currency FROM users WHERE uid = ?`
	var user User
	err := u.db.QueryRowContext(ctx, query, uid).
		Scan(
			&user.Id,
			&user.Uid,
			&user.Email,
			&user.FirstName,
			&user.LastName,
			&user.Currency,
		)
	if errors.Is(err, sql.ErrNoRows) {
		log.Infof("user with uid %s not found: %v", uid, err)
		return User{}, err
	} else if err != nil {
		log.Errorf("failed to get user: %v", err)
		return User{}, err
	}
	return user, nil
}

func (u *UserRepoImpl) UpdateUser(ctx context.Context, userId int, user User) (User, error) {
	query := `UPDATE users SET email = ?, first_name = ?, last_name = ?, currency = ? WHERE id = ?`
	result, err := u.db.ExecContext(ctx, query,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Currency,
		userId,
	)
	if err != nil {
		return User{}, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return User{}, err
	}
	if rowsAffected == 0 {
		log.Info("no rows affected of updating user")
		return User{}, errors.New("User with id " + strconv.Itoa(userId) + " not found")
	}
	user.Id = userId
	return user, nil
}

func (u *UserRepoImpl) DeleteUser(ctx context.Context, id int) error {
	query := `DELETE FROM users WHERE id = ?`
	result, err := u.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		log.Info("no rows affected of deleting user")
		return errors.New("User with id " + strconv.Itoa(id) + " not found")
	}
	return nil
}

func (u *UserRepoImpl) GetAllUsers(ctx context.Context) ([]User, error) {
	query := `SELECT id, uid, email, first_name, last_name, currency FROM users`
	rows, err := u.db.QueryContext(ctx, query)
	if err != nil {
		log.Errorf("failed to get users: %v", err)
		return nil, err
	}
	defer rows.Close()
	users := make([]User, 0, 10)
	for rows.Next() {
		var user User
		err := rows.Scan(&user.Id, &user.Uid, &user.Email, &user.FirstName, &user.LastName, &user.Currency)
		if err != nil {
			log.Errorf("failed to scan user: %v", err)
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over rows: %v", err)
		return nil, err
	}
	return users, nil
}

package userRepo

import (
	"context"
	"errors"

	"staffdir/internal/structs"
	"staffdir/pkg/db"
	"staffdir/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/fx"
	"golang.org/x/crypto/bcrypt"
)

var (
	Module = fx.Provide(New)
)

type (
	Params struct {
		fx.In
		Logger logger.Logger
		DB     db.Querier
	}

	Repo interface {
		Create(ctx context.Context, email, password, displayName string) (structs.User, error)
		GetByEmail(ctx context.Context, email string) (structs.User, string, error)
		GetById(ctx context.Context, id string) (structs.User, error)
	}

	repo struct {
		logger logger.Logger
		db     db.Querier
	}
)

func New(p Params) Repo {
	return &repo{
		logger: p.Logger,
		db:     p.DB,
	}
}

func (r repo) Create(ctx context.Context, email, password, displayName string) (structs.User, error) {
	var (
		pgErr = &pgconn.PgError{}
		query = `
			INSERT INTO "users"(
				id,
				email,
				password_hash,
				display_name
			) VALUES ($1, $2, $3, $4)
		`
		userId = uuid.NewString()
	)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return structs.User{}, err
	}

	_, err = r.db.Exec(ctx, query, userId, email, string(hashedPassword), displayName)
	if err != nil {
		if errors.As(err, &pgErr) && pgerrcode.UniqueViolation == pgErr.Code {
			return structs.User{}, structs.ErrUniqueViolation
		}
		return structs.User{}, err
	}

	return structs.User{
		Id:          userId,
		Email:       email,
		DisplayName: displayName,
	}, nil
}

func (r repo) GetByEmail(ctx context.Context, email string) (structs.User, string, error) {
	var (
		query = `
			SELECT
				id,
				email,
				password_hash,
				display_name
			FROM users
			WHERE email = $1
		`
		user         structs.User
		passwordHash string
	)

	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.Id,
		&user.Email,
		&passwordHash,
		&user.DisplayName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return structs.User{}, "", structs.ErrNotFound
		}
		return structs.User{}, "", err
	}

	return user, passwordHash, nil
}

func (r repo) GetById(ctx context.Context, id string) (structs.User, error) {
	var (
		query = `
			SELECT
				id,
				email,
				display_name
			FROM users
			WHERE id = $1
		`
		user structs.User
	)

	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.Id,
		&user.Email,
		&user.DisplayName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return structs.User{}, structs.ErrNotFound
		}
		return structs.User{}, err
	}

	return user, nil
}

package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"todoapi/internal/models"
)

// TodoRepository persists todo records. Every lookup and mutation is scoped
// by owner id, so a row owned by someone else behaves exactly like a row
// that does not exist.
type TodoRepository interface {
	ListByOwner(ownerID int64) ([]*models.Todo, error)
	GetByID(id, ownerID int64) (*models.Todo, error)
	Create(todo *models.Todo) error
	Update(todo *models.Todo) (bool, error)
	Delete(id, ownerID int64) (bool, error)
}

type todoRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewTodoRepository(db *sqlx.DB, logger *zap.Logger) TodoRepository {
	return &todoRepository{db: db, logger: logger}
}

func (r *todoRepository) ListByOwner(ownerID int64) ([]*models.Todo, error) {
	todos := []*models.Todo{}
	query := `SELECT id, title, description, priority, complete, owner_id FROM todos WHERE owner_id = $1 ORDER BY id`
	err := r.db.Select(&todos, query, ownerID)
	if err != nil {
		return nil, err
	}
	return todos, nil
}

func (r *todoRepository) GetByID(id, ownerID int64) (*models.Todo, error) {
	var todo models.Todo
	query := `SELECT id, title, description, priority, complete, owner_id FROM todos WHERE id = $1 AND owner_id = $2`
	err := r.db.Get(&todo, query, id, ownerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Missing or foreign-owned
		}
		return nil, err
	}
	return &todo, nil
}

func (r *todoRepository) Create(todo *models.Todo) error {
	query := `INSERT INTO todos (title, description, priority, complete, owner_id)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return r.db.QueryRowx(query, todo.Title, todo.Description, todo.Priority, todo.Complete, todo.OwnerID).
		Scan(&todo.ID)
}

// Update overwrites title, description, priority and complete in place.
// The id and owner are immutable. Returns false when no owned row matched.
func (r *todoRepository) Update(todo *models.Todo) (bool, error) {
	query := `UPDATE todos SET title = $1, description = $2, priority = $3, complete = $4
	          WHERE id = $5 AND owner_id = $6`
	res, err := r.db.Exec(query, todo.Title, todo.Description, todo.Priority, todo.Complete, todo.ID, todo.OwnerID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *todoRepository) Delete(id, ownerID int64) (bool, error) {
	query := `DELETE FROM todos WHERE id = $1 AND owner_id = $2`
	res, err := r.db.Exec(query, id, ownerID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

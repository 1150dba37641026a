package repos

import (
	"time"

	"ktmobile/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type NotifyRepo struct{ db *sqlx.DB }

func NewNotifyRepo(db *sqlx.DB) *NotifyRepo { return &NotifyRepo{db: db} }

// Add stores a request; asking twice for the same variant keeps the first one.
// created reports whether a new row was written.
func (r *NotifyRepo) Add(phoneID, storage, condition, email string) (req domain.NotifyRequest, created bool, err error) {
	req = domain.NotifyRequest{
		ID:        uuid.NewString(),
		PhoneID:   phoneID,
		Storage:   storage,
		Condition: condition,
		Email:     email,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	res, err := r.db.Exec(`
	  INSERT INTO notify_requests(id, phone_id, storage, condition, email, created_at)
	  VALUES(?, ?, ?, ?, ?, ?)
	  ON CONFLICT DO NOTHING
	`, req.ID, req.PhoneID, req.Storage, req.Condition, req.Email, req.CreatedAt)
	if err != nil {
		return domain.NotifyRequest{}, false, err
	}
	n, _ := res.RowsAffected()
	return req, n > 0, nil
}

func (r *NotifyRepo) List() ([]domain.NotifyRequest, error) {
	out := []domain.NotifyRequest{}
	err := r.db.Select(&out, `
	  SELECT id, phone_id, storage, condition, email, created_at
	  FROM notify_requests
	  ORDER BY created_at, id
	`)
	return out, err
}

func (r *NotifyRepo) ForPhone(phoneID string) ([]domain.NotifyRequest, error) {
	out := []domain.NotifyRequest{}
	err := r.db.Select(&out, `
	  SELECT id, phone_id, storage, condition, email, created_at
	  FROM notify_requests
	  WHERE phone_id = ?
	  ORDER BY created_at, id
	`, phoneID)
	return out, err
}

// DeleteForPhone drops the requests of a phone that left the catalog.
func (r *NotifyRepo) DeleteForPhone(phoneID string) error {
	_, err := r.db.Exec(`DELETE FROM notify_requests WHERE phone_id = ?`, phoneID)
	return err
}

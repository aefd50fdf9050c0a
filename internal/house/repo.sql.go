package house

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rogerioalves7/domo-1/internal/platform/db"
)

// Repository implements RepositoryPort against PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

func (r *Repository) InsertHouse(ctx context.Context, h *House) error {
	return r.pool.QueryRow(ctx, `INSERT INTO houses (name) VALUES ($1) RETURNING id, created_at`, h.Name).
		Scan(&h.ID, &h.CreatedAt)
}

func (r *Repository) GetHouse(ctx context.Context, id int64) (*House, error) {
	var h House
	err := r.pool.QueryRow(ctx, `SELECT id, name, created_at FROM houses WHERE id = $1`, id).
		Scan(&h.ID, &h.Name, &h.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrHouseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *Repository) DeleteHouse(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM houses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrHouseNotFound
	}
	return nil
}

func (r *Repository) RenameHouse(ctx context.Context, id int64, name string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE houses SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrHouseNotFound
	}
	return nil
}

func (r *Repository) UpsertMembership(ctx context.Context, userID, houseID int64, role string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO house_members (user_id, house_id, role) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET house_id = EXCLUDED.house_id, role = EXCLUDED.role`,
		userID, houseID, role,
	)
	return err
}

const memberColumns = `m.id, m.user_id, u.username, u.email, m.house_id, m.role, m.created_at`

func (r *Repository) GetMembership(ctx context.Context, userID int64) (*Member, error) {
	var m Member
	err := r.pool.QueryRow(ctx, `
		SELECT `+memberColumns+`
		FROM house_members m JOIN users u ON u.id = m.user_id
		WHERE m.user_id = $1`,
		userID,
	).Scan(&m.ID, &m.UserID, &m.Username, &m.Email, &m.HouseID, &m.Role, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) ListMembers(ctx context.Context, houseID int64) ([]Member, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+memberColumns+`
		FROM house_members m JOIN users u ON u.id = m.user_id
		WHERE m.house_id = $1
		ORDER BY u.username`,
		houseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.UserID, &m.Username, &m.Email, &m.HouseID, &m.Role, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repository) CountMembers(ctx context.Context, houseID int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM house_members WHERE house_id = $1`, houseID).Scan(&n)
	return n, err
}

func (r *Repository) DeleteUser(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	return err
}

func (r *Repository) InsertInvitation(ctx context.Context, inv *Invitation) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO house_invitations (id, house_id, inviter_id, email)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		inv.ID, inv.HouseID, inv.InviterID, inv.Email,
	).Scan(&inv.CreatedAt)
}

func (r *Repository) GetInvitation(ctx context.Context, id uuid.UUID) (*Invitation, error) {
	var inv Invitation
	var inviterID *int64
	err := r.pool.QueryRow(ctx, `
		SELECT id, house_id, inviter_id, email, accepted, created_at
		FROM house_invitations WHERE id = $1`,
		id,
	).Scan(&inv.ID, &inv.HouseID, &inviterID, &inv.Email, &inv.Accepted, &inv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInviteNotFound
	}
	if err != nil {
		return nil, err
	}
	if inviterID != nil {
		inv.InviterID = *inviterID
	}
	return &inv, nil
}

func (r *Repository) ListPendingInvitations(ctx context.Context, houseID int64) ([]Invitation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, house_id, inviter_id, email, accepted, created_at
		FROM house_invitations WHERE house_id = $1 AND NOT accepted
		ORDER BY created_at`,
		houseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Invitation
	for rows.Next() {
		var inv Invitation
		var inviterID *int64
		if err := rows.Scan(&inv.ID, &inv.HouseID, &inviterID, &inv.Email, &inv.Accepted, &inv.CreatedAt); err != nil {
			return nil, err
		}
		if inviterID != nil {
			inv.InviterID = *inviterID
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *Repository) DeleteInvitation(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM house_invitations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInviteNotFound
	}
	return nil
}

func (r *Repository) HasPendingInvitation(ctx context.Context, houseID int64, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM house_invitations
			WHERE house_id = $1 AND LOWER(email) = LOWER($2) AND NOT accepted
		)`,
		houseID, email,
	).Scan(&exists)
	return exists, err
}

func (r *Repository) IsMemberEmail(ctx context.Context, houseID int64, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM house_members m JOIN users u ON u.id = m.user_id
			WHERE m.house_id = $1 AND LOWER(u.email) = LOWER($2)
		)`,
		houseID, email,
	).Scan(&exists)
	return exists, err
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) AnonymizePrivateFunding(ctx context.Context, houseID, userID int64) error {
	_, err := r.tx.Exec(ctx, `
		UPDATE transactions SET account_id = NULL
		WHERE account_id IN (
			SELECT id FROM accounts WHERE house_id = $1 AND owner_id = $2 AND NOT is_shared
		)`,
		houseID, userID,
	)
	if err != nil {
		return err
	}
	_, err = r.tx.Exec(ctx, `
		UPDATE transactions SET invoice_id = NULL
		WHERE invoice_id IN (
			SELECT i.id FROM invoices i
			JOIN credit_cards c ON c.id = i.card_id
			WHERE c.house_id = $1 AND c.owner_id = $2 AND NOT c.is_shared
		)`,
		houseID, userID,
	)
	return err
}

func (r *txRepository) DeletePrivateAccounts(ctx context.Context, houseID, userID int64) error {
	_, err := r.tx.Exec(ctx, `DELETE FROM accounts WHERE house_id = $1 AND owner_id = $2 AND NOT is_shared`, houseID, userID)
	return err
}

func (r *txRepository) DeletePrivateCards(ctx context.Context, houseID, userID int64) error {
	_, err := r.tx.Exec(ctx, `DELETE FROM credit_cards WHERE house_id = $1 AND owner_id = $2 AND NOT is_shared`, houseID, userID)
	return err
}

func (r *txRepository) DeleteMembership(ctx context.Context, userID int64) error {
	_, err := r.tx.Exec(ctx, `DELETE FROM house_members WHERE user_id = $1`, userID)
	return err
}

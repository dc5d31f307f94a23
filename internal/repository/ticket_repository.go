package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alnasr-it/helpdesk/internal/domain"
)

// TicketFilter captures list view filters. Nil fields are ignored.
type TicketFilter struct {
	Site       *string
	Status     *domain.TicketStatus
	SearchTerm *string
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByNumber(ctx context.Context, ticketNumber string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	CountByNumberPrefix(ctx context.Context, prefix string) (int, error)
	UpdateStatus(ctx context.Context, ticketNumber string, status domain.TicketStatus) (*domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (ticket_number, site, description, status, sender)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.TicketNumber,
		ticket.Site,
		ticket.Description,
		ticket.Status,
		ticket.Sender,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByNumber(ctx context.Context, ticketNumber string) (*domain.Ticket, error) {
	const query = `
        SELECT id, ticket_number, site, description, status, sender, created_at, updated_at
        FROM tickets WHERE ticket_number=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, ticketNumber).Scan(
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.Site,
		&ticket.Description,
		&ticket.Status,
		&ticket.Sender,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) CountByNumberPrefix(ctx context.Context, prefix string) (int, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE ticket_number LIKE $1`
	var count int
	if err := r.pool.QueryRow(ctx, query, prefix+"%").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, ticketNumber string, status domain.TicketStatus) (*domain.Ticket, error) {
	const query = `
        UPDATE tickets SET status=$1, updated_at=NOW()
        WHERE ticket_number=$2
        RETURNING id, ticket_number, site, description, status, sender, created_at, updated_at`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, status, ticketNumber).Scan(
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.Site,
		&ticket.Description,
		&ticket.Status,
		&ticket.Sender,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	query, args := buildListQuery(filter)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func buildListQuery(filter TicketFilter) (string, []any) {
	const base = `SELECT id, ticket_number, site, description, status, sender, created_at, updated_at
             FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Site != nil && *filter.Site != "" {
		args = append(args, *filter.Site)
		clauses = append(clauses, fmt.Sprintf("site=$%d", len(args)))
	}
	if filter.Status != nil && *filter.Status != "" {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + escapeLikeTerm(strings.ToLower(strings.TrimSpace(*filter.SearchTerm))) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			`(LOWER(ticket_number) LIKE %s ESCAPE '\' OR LOWER(description) LIKE %s ESCAPE '\' OR LOWER(COALESCE(sender,'')) LIKE %s ESCAPE '\')`,
			placeholder, placeholder, placeholder))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC`, base, strings.Join(clauses, " AND "))
	return query, args
}

// escapeLikeTerm neutralizes LIKE metacharacters so the search term matches
// as a literal substring.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func escapeLikeTerm(term string) string {
	return likeEscaper.Replace(term)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.TicketNumber,
			&ticket.Site,
			&ticket.Description,
			&ticket.Status,
			&ticket.Sender,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/alnasr-it/helpdesk/internal/clock"
	"github.com/alnasr-it/helpdesk/internal/config"
	"github.com/alnasr-it/helpdesk/internal/domain"
	"github.com/alnasr-it/helpdesk/internal/events"
	"github.com/alnasr-it/helpdesk/internal/repository"
	apperrors "github.com/alnasr-it/helpdesk/pkg/util"
)

const (
	statsCacheKey = "helpdesk:stats"
	statsCacheTTL = 30 * time.Second
)

// TicketService is the registry: sole authority for ticket identity,
// numbering and status transitions.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	sites      config.SitesConfig
	clock      clock.Clock
	cache      *redis.Client
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Sites      config.SitesConfig
	Clock      clock.Clock
	Cache      *redis.Client
	Logger     *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Site        string
	Description string
	Sender      string
}

// TicketStats aggregates dashboard counters.
type TicketStats struct {
	Total      int            `json:"total_tickets"`
	Open       int            `json:"open_tickets"`
	InProgress int            `json:"in_progress_tickets"`
	Resolved   int            `json:"resolved_tickets"`
	Closed     int            `json:"closed_tickets"`
	BySite     map[string]int `json:"tickets_by_site"`
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	c := deps.Clock
	if c == nil {
		c = clock.NewSystem()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		sites:      deps.Sites,
		clock:      c,
		cache:      deps.Cache,
		logger:     logger,
	}
}

// GenerateTicketNumber computes the next human-facing identifier for a site:
// <yyyymmdd><site letter><2-digit daily sequence>. The count-then-insert is
// not serialized against concurrent creations for the same site and day;
// duplicate numbers are possible under concurrent writers.
func (s *TicketService) GenerateTicketNumber(ctx context.Context, site string) (string, error) {
	code, ok := s.sites.Code(site)
	if !ok {
		return "", apperrors.NewInvalidSite(site)
	}

	prefix := s.clock.Now().Format("20060102") + code
	count, err := s.tickets.CountByNumberPrefix(ctx, prefix)
	if err != nil {
		return "", apperrors.NewPersistenceError(err)
	}
	return fmt.Sprintf("%s%02d", prefix, count+1), nil
}

// CreateTicket validates input, assigns a ticket number and persists the
// ticket with status Open. The creation event is published only after the
// write commits.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	if _, ok := s.sites.Code(input.Site); !ok {
		return nil, apperrors.NewInvalidSite(input.Site)
	}

	description := strings.TrimSpace(input.Description)
	if n := utf8.RuneCountInString(description); n < domain.DescriptionMinLen || n > domain.DescriptionMaxLen {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("description must be between %d and %d characters", domain.DescriptionMinLen, domain.DescriptionMaxLen),
			map[string]any{"field": "description"})
	}

	sender := strings.TrimSpace(input.Sender)
	if sender == "" {
		sender = domain.DefaultSender
	}
	if utf8.RuneCountInString(sender) > domain.SenderMaxLen {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("sender must be at most %d characters", domain.SenderMaxLen),
			map[string]any{"field": "sender"})
	}

	ticketNumber, err := s.GenerateTicketNumber(ctx, input.Site)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		TicketNumber: ticketNumber,
		Site:         input.Site,
		Description:  description,
		Status:       domain.TicketStatusOpen,
		Sender:       sender,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}

	s.invalidateStatsCache(ctx)
	s.publish(ctx, events.EventTicketCreated, ticket.TicketNumber, events.TicketCreatedPayload{
		Site:        ticket.Site,
		Description: ticket.Description,
		Sender:      ticket.Sender,
		Status:      ticket.Status,
	})
	return ticket, nil
}

// GetTicket returns the ticket with the given number. Absence is an expected
// outcome and reported as a NOT_FOUND domain error.
func (s *TicketService) GetTicket(ctx context.Context, ticketNumber string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByNumber(ctx, ticketNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_number": ticketNumber})
		}
		return nil, apperrors.NewPersistenceError(err)
	}
	return ticket, nil
}

// ListTickets returns tickets matching the filter, newest first.
func (s *TicketService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	return tickets, nil
}

// UpdateStatus moves a ticket to newStatus. Any status is reachable from any
// other; re-setting the current status is a permitted no-op.
func (s *TicketService) UpdateStatus(ctx context.Context, ticketNumber string, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if !domain.ValidStatus(newStatus) {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("invalid status %q", newStatus),
			map[string]any{"field": "status"})
	}

	current, err := s.GetTicket(ctx, ticketNumber)
	if err != nil {
		return nil, err
	}
	oldStatus := current.Status

	updated, err := s.tickets.UpdateStatus(ctx, ticketNumber, newStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_number": ticketNumber})
		}
		return nil, apperrors.NewPersistenceError(err)
	}

	s.invalidateStatsCache(ctx)
	s.publish(ctx, events.EventTicketStatusChanged, updated.TicketNumber, events.TicketStatusChangedPayload{
		Site:      updated.Site,
		OldStatus: oldStatus,
		NewStatus: updated.Status,
		UpdatedAt: updated.UpdatedAt,
	})
	return updated, nil
}

// Stats aggregates ticket counts by status and site, served from the Redis
// cache when a fresh entry exists.
func (s *TicketService) Stats(ctx context.Context) (*TicketStats, error) {
	if cached := s.statsFromCache(ctx); cached != nil {
		return cached, nil
	}

	tickets, err := s.tickets.List(ctx, repository.TicketFilter{})
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}

	stats := &TicketStats{BySite: make(map[string]int)}
	for _, name := range s.sites.Names() {
		stats.BySite[name] = 0
	}
	for _, t := range tickets {
		stats.Total++
		switch t.Status {
		case domain.TicketStatusOpen:
			stats.Open++
		case domain.TicketStatusInProgress:
			stats.InProgress++
		case domain.TicketStatusResolved:
			stats.Resolved++
		case domain.TicketStatusClosed:
			stats.Closed++
		}
		stats.BySite[t.Site]++
	}

	s.storeStatsCache(ctx, stats)
	return stats, nil
}

// Sites exposes the configured site set for form rendering.
func (s *TicketService) Sites() config.SitesConfig {
	return s.sites
}

func (s *TicketService) publish(ctx context.Context, eventType events.EventType, ticketNumber string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		TicketNumber: ticketNumber,
		Timestamp:    s.clock.Now(),
		Payload:      payload,
	})
}

func (s *TicketService) statsFromCache(ctx context.Context) *TicketStats {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("stats cache read failed", zap.Error(err))
		}
		return nil
	}
	var stats TicketStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		s.logger.Warn("stats cache entry corrupt", zap.Error(err))
		return nil
	}
	return &stats
}

func (s *TicketService) storeStatsCache(ctx context.Context, stats *TicketStats) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, statsCacheKey, raw, statsCacheTTL).Err(); err != nil {
		s.logger.Warn("stats cache write failed", zap.Error(err))
	}
}

func (s *TicketService) invalidateStatsCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statsCacheKey).Err(); err != nil {
		s.logger.Warn("stats cache invalidation failed", zap.Error(err))
	}
}

package repository

import (
	"strings"
	"testing"

	"github.com/alnasr-it/helpdesk/internal/domain"
)

func TestBuildListQuery(t *testing.T) {
	t.Parallel()

	t.Run("no filter orders newest first with no args", func(t *testing.T) {
		query, args := buildListQuery(TicketFilter{})
		if !strings.Contains(query, "ORDER BY created_at DESC") {
			t.Fatalf("expected newest-first ordering, got:\n%s", query)
		}
		if len(args) != 0 {
			t.Fatalf("expected no args, got %v", args)
		}
	})

	t.Run("site and status become positional clauses", func(t *testing.T) {
		site := "Alkhor"
		status := domain.TicketStatusOpen
		query, args := buildListQuery(TicketFilter{Site: &site, Status: &status})

		if !strings.Contains(query, "site=$1") || !strings.Contains(query, "status=$2") {
			t.Fatalf("expected site=$1 and status=$2 clauses, got:\n%s", query)
		}
		if len(args) != 2 || args[0] != "Alkhor" || args[1] != status {
			t.Fatalf("unexpected args %v", args)
		}
	})

	t.Run("search lowercases the term and reuses one placeholder", func(t *testing.T) {
		search := "  Printer  "
		query, args := buildListQuery(TicketFilter{SearchTerm: &search})

		if strings.Count(query, "$1") != 3 {
			t.Fatalf("expected one placeholder over three columns, got:\n%s", query)
		}
		if len(args) != 1 || args[0] != "%printer%" {
			t.Fatalf("expected lowercased wildcard term, got %v", args)
		}
		for _, col := range []string{"LOWER(ticket_number)", "LOWER(description)", "LOWER(COALESCE(sender,''))"} {
			if !strings.Contains(query, col) {
				t.Fatalf("expected search over %s, got:\n%s", col, query)
			}
		}
	})

	t.Run("LIKE metacharacters in the term match literally", func(t *testing.T) {
		search := "100%"
		query, args := buildListQuery(TicketFilter{SearchTerm: &search})

		if len(args) != 1 || args[0] != `%100\%%` {
			t.Fatalf("expected escaped wildcard term, got %v", args)
		}
		if !strings.Contains(query, `ESCAPE '\'`) {
			t.Fatalf("expected ESCAPE clause, got:\n%s", query)
		}

		search = `a_c\d`
		_, args = buildListQuery(TicketFilter{SearchTerm: &search})
		if args[0] != `%a\_c\\d%` {
			t.Fatalf("expected underscore and backslash escaped, got %v", args)
		}
	})

	t.Run("blank filter values are ignored", func(t *testing.T) {
		empty := ""
		emptyStatus := domain.TicketStatus("")
		blank := "   "
		query, args := buildListQuery(TicketFilter{Site: &empty, Status: &emptyStatus, SearchTerm: &blank})
		if len(args) != 0 {
			t.Fatalf("expected no args, got %v", args)
		}
		if strings.Contains(query, "site=") || strings.Contains(query, "status=") || strings.Contains(query, "LIKE") {
			t.Fatalf("expected no filter clauses, got:\n%s", query)
		}
	})
}

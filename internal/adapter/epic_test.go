package adapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gamedeals/freegames/internal/model"
)

const epicFixture = `{
  "data": {
    "Catalog": {
      "searchStore": {
        "elements": [
          {
            "title": "Ghost Runner",
            "description": "A fast one",
            "price": {"totalPrice": {"originalPrice": 1999, "currencyCode": "USD"}},
            "catalogNs": {"mappings": [{"pageSlug": "ghost-runner"}]},
            "promotions": {
              "promotionalOffers": [
                {"promotionalOffers": [{"endDate": "2024-01-18T16:00:00.000Z"}]}
              ]
            }
          },
          {
            "title": "Always Free Game",
            "price": {"totalPrice": {"originalPrice": 0, "currencyCode": "USD"}},
            "catalogNs": {"mappings": []},
            "promotions": {
              "promotionalOffers": [
                {"promotionalOffers": [{"endDate": "2024-01-18T16:00:00.000Z"}]}
              ]
            }
          },
          {
            "title": "Upcoming Game",
            "price": {"totalPrice": {"originalPrice": 2999, "currencyCode": "USD"}},
            "catalogNs": {"mappings": []},
            "promotions": {"promotionalOffers": []}
          }
        ]
      }
    }
  }
}`

func TestEpic_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/freeGamesPromotions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(epicFixture))
	}))
	defer server.Close()

	a := NewEpic(WithBaseURL(server.URL))

	listings, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	// Only the active, originally-paid promotion survives.
	if len(listings) != 1 {
		t.Fatalf("got %d listings, want 1", len(listings))
	}

	l := listings[0]
	if l.Source != model.SourceEpic {
		t.Errorf("Source = %q, want %q", l.Source, model.SourceEpic)
	}
	if l.Fields["title"] != "Ghost Runner" {
		t.Errorf("title = %q, want %q", l.Fields["title"], "Ghost Runner")
	}
	if l.Fields["url"] != "https://store.epicgames.com/en-US/p/ghost-runner" {
		t.Errorf("url = %q", l.Fields["url"])
	}
	if l.Fields["originalPriceCents"] != "1999" {
		t.Errorf("originalPriceCents = %q, want %q", l.Fields["originalPriceCents"], "1999")
	}
	if l.Fields["endDate"] != "2024-01-18T16:00:00.000Z" {
		t.Errorf("endDate = %q", l.Fields["endDate"])
	}
	if l.FetchedAt.IsZero() {
		t.Error("FetchedAt is zero")
	}
}

func TestEpic_FetchParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	a := NewEpic(WithBaseURL(server.URL))

	_, err := a.Fetch(context.Background())
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if parseErr.Source != model.SourceEpic {
		t.Errorf("ParseError.Source = %q, want %q", parseErr.Source, model.SourceEpic)
	}
}

func TestEpic_FetchTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	a := NewEpic(WithBaseURL(server.URL), WithRetries(0, time.Millisecond))

	_, err := a.Fetch(context.Background())
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("error = %v, want *TransportError", err)
	}
}

func TestEpic_FetchRetriesServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			http.Error(w, "flaky", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(epicFixture))
	}))
	defer server.Close()

	a := NewEpic(WithBaseURL(server.URL), WithRetries(3, time.Millisecond))

	listings, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed after retries: %v", err)
	}
	if len(listings) != 1 {
		t.Errorf("got %d listings, want 1", len(listings))
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestEpic_FetchHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(epicFixture))
	}))
	defer server.Close()

	a := NewEpic(WithBaseURL(server.URL))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := a.Fetch(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
}

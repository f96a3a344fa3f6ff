package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-booking-system/internal/app"
	"github.com/metinatakli/cinema-booking-system/internal/payment"
	"github.com/stretchr/testify/require"
)

type TestApp struct {
	App *app.Application
	DB  *pgxpool.Pool
}

func newTestApp(dbConnStr, redisConnStr string) (*TestApp, error) {
	cfg := app.Config{
		Port: 3000,
		Env:  "test",
		DB: app.DBConfig{
			DSN:          dbConnStr,
			MaxOpenConns: 25,
			MaxIdleTime:  2 * time.Minute,
		},
		Redis: app.RedisConfig{
			URL:          redisConnStr,
			MaxOpenConns: 10,
			MaxIdleConns: 10,
			MaxIdleTime:  2 * time.Minute,
		},
		Hold: app.HoldConfig{
			TTL:           10 * time.Minute,
			SweepInterval: time.Minute,
		},
		Stripe: app.StripeConfig{Currency: "usd"},
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	application := app.NewApplication(cfg, logger, db, redisClient, payment.NewMockGateway())

	return &TestApp{
		App: application,
		DB:  db,
	}, nil
}

var keysToIgnore = map[string]struct{}{
	"timestamp": {},
	"requestId": {},
	"createdAt": {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string, cookies []*http.Cookie) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	return req, nil
}

func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indetermistic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ok := keysToIgnore[k]
		return ok
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}
		if nested, ok := m[k].(map[string]any); ok {
			cleanMap(nested)
		}
	}
}

func jsonBody(t testing.TB, v any) io.Reader {
	data, err := json.Marshal(v)
	require.NoError(t, err)

	return bytes.NewReader(data)
}

func decodeBody[T any](t testing.TB, body io.Reader) T {
	var v T
	require.NoError(t, json.NewDecoder(body).Decode(&v))

	return v
}

// seedCatalog inserts a movie, a hall and an upcoming showtime, returning
// their ids.
func seedCatalog(t testing.TB, db *pgxpool.Pool) (movieId, hallId, showtimeId int) {
	ctx := context.Background()

	err := db.QueryRow(ctx, `
		INSERT INTO movies (title, description, genre, duration_mins, release_date, poster_url)
		VALUES ('Test Movie', 'A movie for tests', 'Drama', 120, '2026-01-01', 'https://example.com/poster.jpg')
		RETURNING id
	`).Scan(&movieId)
	require.NoError(t, err)

	err = db.QueryRow(ctx, `
		INSERT INTO halls (name, total_seats, layout_rows, layout_cols)
		VALUES ('Hall 1', 20, 4, 5)
		RETURNING id
	`).Scan(&hallId)
	require.NoError(t, err)

	err = db.QueryRow(ctx, `
		INSERT INTO showtimes (movie_id, hall_id, show_date, start_time, end_time, ticket_price)
		VALUES ($1, $2, CURRENT_DATE, NOW() + INTERVAL '2 hours', NOW() + INTERVAL '4 hours', 12.50)
		RETURNING id
	`, movieId, hallId).Scan(&showtimeId)
	require.NoError(t, err)

	return movieId, hallId, showtimeId
}

func registerAndLogin(t testing.TB, testApp *TestApp, email string) []*http.Cookie {
	registerBody := jsonBody(t, map[string]string{
		"name":     "Test User",
		"email":    email,
		"password": "Str0ng!Pass",
	})

	req, err := prepareRequest(http.MethodPost, "/users", registerBody, nil, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	testApp.App.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	loginBody := jsonBody(t, map[string]string{
		"email":    email,
		"password": "Str0ng!Pass",
	})

	req, err = prepareRequest(http.MethodPost, "/sessions", loginBody, nil, nil)
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	testApp.App.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies, "login must set a session cookie")

	return cookies
}

func makeAdmin(t testing.TB, db *pgxpool.Pool, email string) {
	_, err := db.Exec(context.Background(), `UPDATE users SET is_admin = TRUE WHERE email = $1`, email)
	require.NoError(t, err)
}

func createHold(t testing.TB, testApp *TestApp, showtimeId int, seats []string, cookies []*http.Cookie) (token string, status int) {
	body := jsonBody(t, map[string]any{"seatIds": seats})

	req, err := prepareRequest(http.MethodPost, fmt.Sprintf("/showtimes/%d/holds", showtimeId), body, nil, cookies)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	testApp.App.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		return "", rec.Code
	}

	resp := decodeBody[map[string]any](t, rec.Body)

	return resp["holderToken"].(string), rec.Code
}

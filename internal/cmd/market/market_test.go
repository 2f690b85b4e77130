// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package market_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toikana/marketplace/internal/cmd/market"
	"github.com/toikana/marketplace/internal/platform/config"
	"github.com/toikana/marketplace/internal/platform/respond"
	"github.com/toikana/marketplace/internal/platform/sec"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// fakeAPI serves the routes the commands below reach.
type fakeAPI struct {
	mu      sync.Mutex
	role    sec.Role
	venues  []map[string]any
	created []map[string]any
}

func (api *fakeAPI) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	api.mu.Lock()
	defer api.mu.Unlock()

	signedIn := request.Header.Get("Authorization") == "Bearer access-1"

	switch route := request.Method + " " + request.URL.Path; route {
	case "POST /auth/login":
		respond.OK(writer, map[string]any{
			"access_token": "access-1", "refresh_token": "refresh-1", "token_type": "Bearer",
			"expires_in": 900, "user": sec.Identity{ID: "u-1", Email: "aibek@toikana.kg"},
		})
	case "POST /auth/logout":
		respond.NoContent(writer)
	case "GET /me":
		if !signedIn {
			respond.JSON(writer, http.StatusUnauthorized, respond.ErrorEnvelope{Code: "UNAUTHORIZED"})
			return
		}
		respond.OK(writer, map[string]any{"id": "u-1", "role": api.role})
	case "GET /places":
		respond.OK(writer, api.venues)
	case "POST /places":
		if !signedIn || api.role == sec.RoleUser {
			respond.JSON(writer, http.StatusForbidden, respond.ErrorEnvelope{Code: "FORBIDDEN"})
			return
		}
		var input map[string]any
		_ = json.NewDecoder(request.Body).Decode(&input)
		api.created = append(api.created, input)
		input["id"] = "v-new"
		input["owner_id"] = "u-1"
		respond.Created(writer, input)
	default:
		respond.JSON(writer, http.StatusNotFound, respond.ErrorEnvelope{Code: "NOT_FOUND", Error: route})
	}
}

type harness struct {
	t      *testing.T
	api    *fakeAPI
	server *httptest.Server
	state  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	api := &fakeAPI{role: sec.RoleUser}
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)
	return &harness{t: t, api: api, server: server, state: filepath.Join(t.TempDir(), "state.db")}
}

// run executes one command in a fresh process-like App.
func (h *harness) run(lang string, args ...string) (string, error) {
	h.t.Helper()
	var out bytes.Buffer
	cfg := &config.Client{APIURL: h.server.URL, StatePath: h.state, Language: lang}

	app, err := market.New(context.Background(), cfg, &out, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(h.t, err)
	defer func() { require.NoError(h.t, app.Close()) }()

	err = app.Run(context.Background(), args)
	return out.String(), err
}

/*
TestRun_Usage rejects unknown commands.
*/
func TestRun_Usage(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("", "fly")
	assert.ErrorIs(t, err, market.ErrUsage)
	assert.Contains(t, out, "usage: market")

	_, err = h.run("", "list", "boats")
	assert.ErrorIs(t, err, market.ErrUsage)
}

/*
TestRun_LanguageRemembered persists the language between runs.
*/
func TestRun_LanguageRemembered(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("", "lang")
	require.NoError(t, err)
	assert.Equal(t, "ky\n", out)

	_, err = h.run("", "lang", "rus")
	require.NoError(t, err)

	out, err = h.run("", "lang")
	require.NoError(t, err)
	assert.Equal(t, "ru\n", out)
}

/*
TestRun_List resolves names in the UI language and sorts by price.
*/
func TestRun_List(t *testing.T) {
	h := newHarness(t)
	h.api.venues = []map[string]any{
		{"id": "v-1", "name": "Ала-Тоо", "name_ru": "Ала-Тоо зал", "price": "300"},
		{"id": "v-2", "name": "Ордо", "price": "500"},
	}

	out, err := h.run("ru", "list", "places", "-sort", "price_desc")
	require.NoError(t, err)

	rows := tableRows(out)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "Name", "Price", "Rating"}, rows[0])
	assert.Equal(t, []string{"v-2", "Ордо", "500", "0.0"}, rows[1])
	assert.Equal(t, []string{"v-1", "Ала-Тоо зал", "300", "0.0"}, rows[2])

	h.api.venues = nil
	out, err = h.run("ru", "list", "places")
	require.NoError(t, err)
	assert.Equal(t, "[*] Ничего не найдено\n", out)
}

/*
TestRun_CreateGate walks the create route from anonymous to partner.
*/
func TestRun_CreateGate(t *testing.T) {
	h := newHarness(t)
	create := []string{"create", "places", "-set", "name=Ала-Тоо", "-set", "price=15000", "-set", "capacity=300"}

	out, err := h.run("ru", create...)
	assert.ErrorIs(t, err, market.ErrDenied)
	assert.Contains(t, out, "-> /auth (sign in to open /create-service/places)")

	_, err = h.run("ru", "login", "-email", "aibek@toikana.kg", "-password", "secret123")
	require.NoError(t, err)

	out, err = h.run("ru", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "aibek@toikana.kg\tuser")

	out, err = h.run("ru", create...)
	assert.ErrorIs(t, err, market.ErrDenied)
	assert.Equal(t, "-> /\n", out)

	h.api.role = sec.RolePartner
	out, err = h.run("ru", create...)
	require.NoError(t, err)
	assert.Contains(t, out, "v-new\tАла-Тоо")
	assert.Contains(t, out, "[+] Услуга успешно создана")

	require.Len(t, h.api.created, 1)
	assert.Equal(t, "Ала-Тоо", h.api.created[0]["name"])
	assert.EqualValues(t, 300, h.api.created[0]["capacity"])
}

/*
TestRun_CreateIncomplete stops on the first invalid step and keeps a draft.
*/
func TestRun_CreateIncomplete(t *testing.T) {
	h := newHarness(t)
	h.api.role = sec.RolePartner
	_, err := h.run("ru", "login", "-email", "aibek@toikana.kg", "-password", "secret123")
	require.NoError(t, err)

	out, err := h.run("ru", "create", "places", "-set", "name=Ала-Тоо")
	require.Error(t, err)
	assert.Contains(t, out, "[+] Черновик сохранён")
	assert.Contains(t, out, "price: Обязательное поле")
	assert.Empty(t, h.api.created)

	out, err = h.run("ru", "create", "places", "-draft", "-set", "price=9000")
	require.NoError(t, err)
	assert.Contains(t, out, "[+] Черновик загружен")
	require.Len(t, h.api.created, 1)
	assert.Equal(t, "Ала-Тоо", h.api.created[0]["name"])
}

// tableRows extracts the trimmed cells of every data line of a rendered table.
func tableRows(out string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "│") && !strings.Contains(line, "|") {
			continue
		}
		line = strings.NewReplacer("│", "|").Replace(line)
		cells := strings.Split(strings.Trim(strings.TrimSpace(line), "|"), "|")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		rows = append(rows, cells)
	}
	return rows
}

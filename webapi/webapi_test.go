package webapi_test

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/innofund/escrow/internal/fixtures"
	"github.com/innofund/escrow/pkg/app"
	"github.com/innofund/escrow/pkg/config"
	"github.com/innofund/escrow/pkg/domain/milestone"
	"github.com/innofund/escrow/pkg/domain/project"
	"github.com/innofund/escrow/pkg/notification"
	"github.com/innofund/escrow/webapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(state *fixtures.State) *fiber.App {
	cfg := &config.App{
		Env: "test",
		RateLimit: &config.RateLimit{
			MaxRequests: 1000,
			Window:      time.Minute,
		},
	}
	deps := &app.Deps{
		Uow:      fixtures.NewUnitOfWork(state),
		Notifier: notification.NewDispatcher(slog.Default()),
		Logger:   slog.Default(),
	}
	return webapi.SetupApp(app.New(deps, cfg))
}

func makeRequest(t *testing.T, fiberApp *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := fiberApp.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeData(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close() //nolint: errcheck
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope.Data
}

func TestHealthCheck(t *testing.T) {
	fiberApp := newTestApp(fixtures.NewState())
	resp := makeRequest(t, fiberApp, fiber.MethodGet, "/", "")
	defer resp.Body.Close() //nolint: errcheck
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestInvestEndpoint(t *testing.T) {
	state := fixtures.NewState()
	investorID := uuid.New()
	w := fixtures.SeedWallet(state, investorID, 100000)
	proj := fixtures.SeedProject(state, uuid.New(), project.StatusSeekingFunding, 100000, 0, 10000)
	fiberApp := newTestApp(state)

	body := fmt.Sprintf(`{"investor_id":%q,"amount":500.00}`, investorID)
	resp := makeRequest(t, fiberApp, fiber.MethodPost, "/projects/"+proj.ID.String()+"/invest", body)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close() //nolint: errcheck

	assert.Equal(t, int64(50000), state.Wallets[w.ID].Balance.Cents())
	assert.Equal(t, int64(50000), state.Projects[proj.ID].CurrentFunding.Cents())
}

func TestInvestEndpoint_InsufficientFunds(t *testing.T) {
	state := fixtures.NewState()
	investorID := uuid.New()
	fixtures.SeedWallet(state, investorID, 1000)
	proj := fixtures.SeedProject(state, uuid.New(), project.StatusSeekingFunding, 100000, 0, 0)
	fiberApp := newTestApp(state)

	body := fmt.Sprintf(`{"investor_id":%q,"amount":500.00}`, investorID)
	resp := makeRequest(t, fiberApp, fiber.MethodPost, "/projects/"+proj.ID.String()+"/invest", body)
	defer resp.Body.Close() //nolint: errcheck
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestInvestEndpoint_BadBody(t *testing.T) {
	state := fixtures.NewState()
	proj := fixtures.SeedProject(state, uuid.New(), project.StatusSeekingFunding, 100000, 0, 0)
	fiberApp := newTestApp(state)

	resp := makeRequest(t, fiberApp, fiber.MethodPost, "/projects/"+proj.ID.String()+"/invest", `{"amount":-5}`)
	defer resp.Body.Close() //nolint: errcheck
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestEscrowLifecycleOverHTTP(t *testing.T) {
	state := fixtures.NewState()
	innovatorID := uuid.New()
	fixtures.SeedWallet(state, innovatorID, 0)
	proj := fixtures.SeedProject(state, innovatorID, project.StatusFullyFunded, 100000, 100000, 0)
	ms := fixtures.SeedMilestone(state, proj.ID, milestone.StatusApproved, 40000)
	fiberApp := newTestApp(state)

	// Lock the milestone funding in escrow.
	resp := makeRequest(t, fiberApp, fiber.MethodPost, "/milestones/"+ms.ID.String()+"/escrow", `{"amount":400.00}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	escrowID := decodeData(t, resp)["ID"].(string)
	assert.Equal(t, int64(60000), state.Projects[proj.ID].CurrentFunding.Cents())

	// A second lock for the same milestone conflicts.
	resp = makeRequest(t, fiberApp, fiber.MethodPost, "/milestones/"+ms.ID.String()+"/escrow", `{"amount":400.00}`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	resp.Body.Close() //nolint: errcheck

	// Open a dispute, then resolve it with a partial release.
	body := fmt.Sprintf(`{"raised_by":%q,"reason":"scope dispute"}`, uuid.New())
	resp = makeRequest(t, fiberApp, fiber.MethodPost, "/escrows/"+escrowID+"/disputes", body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	disputeID := decodeData(t, resp)["ID"].(string)

	// Direct release is blocked while the dispute is open.
	body = fmt.Sprintf(`{"approver_id":%q}`, uuid.New())
	resp = makeRequest(t, fiberApp, fiber.MethodPost, "/escrows/"+escrowID+"/release", body)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	resp.Body.Close() //nolint: errcheck

	body = fmt.Sprintf(`{"resolver_id":%q,"action":"partial_release","amount":150.00}`, uuid.New())
	resp = makeRequest(t, fiberApp, fiber.MethodPost, "/disputes/"+disputeID+"/resolve", body)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close() //nolint: errcheck

	var innovatorBalance int64
	for _, w := range state.Wallets {
		if w.UserID == innovatorID {
			innovatorBalance = w.Balance.Cents()
		}
	}
	assert.Equal(t, int64(15000), innovatorBalance)
	assert.Equal(t, int64(85000), state.Projects[proj.ID].CurrentFunding.Cents())
}

func TestTwoPhaseDepositOverHTTP(t *testing.T) {
	state := fixtures.NewState()
	w := fixtures.SeedWallet(state, uuid.New(), 0)
	fiberApp := newTestApp(state)

	resp := makeRequest(t, fiberApp, fiber.MethodPost, "/wallets/"+w.ID.String()+"/deposits", `{"amount":250.00}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	txID := decodeData(t, resp)["ID"].(string)
	assert.Equal(t, int64(0), state.Wallets[w.ID].Balance.Cents())

	body := fmt.Sprintf(`{"approver_id":%q,"approved":true}`, uuid.New())
	resp = makeRequest(t, fiberApp, fiber.MethodPost, "/transactions/"+txID+"/settle", body)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close() //nolint: errcheck
	assert.Equal(t, int64(25000), state.Wallets[w.ID].Balance.Cents())

	// Settling twice conflicts.
	resp = makeRequest(t, fiberApp, fiber.MethodPost, "/transactions/"+txID+"/settle", body)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	resp.Body.Close() //nolint: errcheck
}

func TestGetWalletEndpoint_NotFound(t *testing.T) {
	fiberApp := newTestApp(fixtures.NewState())
	resp := makeRequest(t, fiberApp, fiber.MethodGet, "/wallets/"+uuid.NewString(), "")
	defer resp.Body.Close() //nolint: errcheck
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

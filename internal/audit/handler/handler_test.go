package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payoutkyc/internal/audit"
	"payoutkyc/internal/audit/store/memory"
	id "payoutkyc/pkg/domain"
	"payoutkyc/pkg/testutil"
)

func TestHandleList(t *testing.T) {
	publisher := audit.NewPublisher(memory.NewInMemoryStore())
	r := chi.NewRouter()
	New(publisher, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)

	userID := id.NewUserID()
	for _, action := range []audit.Action{audit.ActionFieldUpdated, audit.ActionAddressCopied} {
		require.NoError(t, publisher.Emit(context.Background(), audit.Event{UserID: userID, Action: action}))
	}

	testutil.Given(t, "a user with audit events", func(t *testing.T) {
		rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/admin/audit/"+userID.String()))
		testutil.AssertStatusOK(t, rr)
		resp := testutil.UnmarshalResponse[ListResponse](t, rr)
		require.Len(t, resp.Events, 2)
		assert.Equal(t, audit.ActionFieldUpdated, resp.Events[0].Action)
		assert.Equal(t, audit.ActionAddressCopied, resp.Events[1].Action)
	})

	testutil.Given(t, "a user without events", func(t *testing.T) {
		rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/admin/audit/"+id.NewUserID().String()))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "events", []any{})
	})

	testutil.Given(t, "a malformed user id", func(t *testing.T) {
		rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/admin/audit/not-a-uuid"))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_input")
	})
}

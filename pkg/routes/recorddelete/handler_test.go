package recorddelete

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/internal/repositories/record"
	"github.com/Ramsey-B/fern/pkg/database"
)

// emptyDB holds no rows, so every repository search misses. Only the read
// paths the delete handler reaches are meaningful.
type emptyDB struct{}

var _ database.DB = emptyDB{}

func (emptyDB) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, sql.ErrConnDone
}

func (emptyDB) GetContext(context.Context, any, string, ...any) error {
	return sql.ErrNoRows
}

func (emptyDB) SelectContext(context.Context, any, string, ...any) error {
	return nil
}

func (emptyDB) QueryxContext(context.Context, string, ...any) (*sqlx.Rows, error) {
	return nil, sql.ErrConnDone
}

func (emptyDB) QueryRowxContext(context.Context, string, ...any) *sqlx.Row {
	return nil
}

func (emptyDB) NamedExecContext(context.Context, string, any) (sql.Result, error) {
	return nil, sql.ErrConnDone
}

func (emptyDB) BeginTxx(context.Context, *sql.TxOptions) (*sqlx.Tx, error) {
	return nil, sql.ErrConnDone
}

func (emptyDB) Rebind(query string) string { return query }

func (emptyDB) PingContext(context.Context) error { return nil }

func (emptyDB) Close() error { return nil }

func (emptyDB) GetTx(ctx context.Context, _ *sql.TxOptions) (context.Context, database.Tx, error) {
	return ctx, nil, sql.ErrConnDone
}

var handlerContainerOnce sync.Once

func setupHandlerContainer(t *testing.T) {
	t.Helper()
	handlerContainerOnce.Do(func() {
		container, err := ectoinject.NewDIDefaultContainer()
		require.NoError(t, err)

		logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
		require.NoError(t, ectoinject.RegisterInstance[ectologger.Logger](container, logger))

		repo := record.NewRepository(emptyDB{}, logger)
		require.NoError(t, ectoinject.RegisterInstance[*record.Repository](container, repo))
	})
}

func postDelete(t *testing.T, body map[string]string) (*httptest.ResponseRecorder, DeleteResponse) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	e := echo.New()
	Register(e.Group("/recorddelete"))

	req := httptest.NewRequest(http.MethodPost, "/recorddelete", strings.NewReader(string(payload)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp DeleteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestDeleteHandlerNotFound(t *testing.T) {
	setupHandlerContainer(t)

	rec, resp := postDelete(t, map[string]string{
		"recordType": "customer",
		"idOptions":  `[{"idProp":"entityid","searchOperator":"is","idValue":"Acme Corp"},{"idProp":"externalid","searchOperator":"is","idValue":"LEGACY-9"}]`,
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Contains(t, resp.Message, "no customer matched")
	assert.Empty(t, resp.Results)

	// The audit trail still reports the run: the request plus one miss per
	// exhausted search option.
	require.NotEmpty(t, resp.Logs)
	misses := 0
	for _, statement := range resp.Logs {
		if strings.Contains(statement.Title, "id search missed") {
			misses++
		}
	}
	assert.Equal(t, 2, misses)
}

func TestDeleteHandlerRejectsBadIDOptions(t *testing.T) {
	setupHandlerContainer(t)

	rec, resp := postDelete(t, map[string]string{
		"recordType": "customer",
		"idOptions":  "not json",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid idOptions", resp.Message)

	// The rejected payload is echoed back so the caller can see what was
	// refused.
	require.Len(t, resp.Rejects, 1)
	assert.Equal(t, "not json", resp.Rejects[0])
}

func TestDeleteHandlerRejectsMissingRecordType(t *testing.T) {
	setupHandlerContainer(t)

	rec, resp := postDelete(t, map[string]string{
		"idOptions": `[{"idProp":"entityid","searchOperator":"is","idValue":"Acme Corp"}]`,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request", resp.Message)
	assert.NotEmpty(t, resp.Error)
}

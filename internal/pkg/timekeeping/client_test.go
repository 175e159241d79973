package timekeeping

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paylane-hq/payroll-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, pages [][]attendance.ExternalTimeRecord, failAtPage int) *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"token":"test-token"}`)
	})

	mux.HandleFunc("/api/v1/timerecords", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var page int
		fmt.Sscanf(r.URL.Query().Get("page"), "%d", &page)
		if failAtPage > 0 && page == failAtPage {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		require.GreaterOrEqual(t, page, 1)
		require.LessOrEqual(t, page, len(pages))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"records":%s,"page":%d,"total_pages":%d}`, recordsJSON(pages[page-1]), page, len(pages))
	})

	return httptest.NewServer(mux)
}

func recordsJSON(records []attendance.ExternalTimeRecord) string {
	out := "["
	for i, r := range records {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf(`{"time_recorder_id":%q,"date":%q,"worked_time":%q}`, r.TimeRecorderID, r.Date, r.WorkedTime)
	}
	return out + "]"
}

func TestFetchMonthDrainsAllPages(t *testing.T) {
	pages := [][]attendance.ExternalTimeRecord{
		{{TimeRecorderID: "1001", Date: "2025-03-01", WorkedTime: "8:00"}},
		{{TimeRecorderID: "1001", Date: "2025-03-02", WorkedTime: "7:30"}},
		{{TimeRecorderID: "1002", Date: "2025-03-01", WorkedTime: "480"}},
	}
	srv := newTestServer(t, pages, 0)
	defer srv.Close()

	source := NewHTTPSource(srv.URL, "tenant-a", "secret")
	data, err := source.FetchMonth(context.Background(), "2025-03")

	require.NoError(t, err)
	assert.Equal(t, 3, data.Pages)
	assert.Len(t, data.Records, 3)
	assert.Equal(t, "1002", data.Records[2].TimeRecorderID)
}

func TestFetchMonthAbortsOnPageFailure(t *testing.T) {
	pages := [][]attendance.ExternalTimeRecord{
		{{TimeRecorderID: "1001", Date: "2025-03-01", WorkedTime: "8:00"}},
		{{TimeRecorderID: "1001", Date: "2025-03-02", WorkedTime: "7:30"}},
		{{TimeRecorderID: "1002", Date: "2025-03-01", WorkedTime: "480"}},
	}
	srv := newTestServer(t, pages, 2)
	defer srv.Close()

	source := NewHTTPSource(srv.URL, "tenant-a", "secret")
	_, err := source.FetchMonth(context.Background(), "2025-03")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetch))

	var syncErr *SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, 2, syncErr.Page)
	assert.Equal(t, 1, syncErr.RecordsRetrieved)
}

func TestFetchMonthAuthFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	source := NewHTTPSource(srv.URL, "tenant-a", "wrong-key")
	_, err := source.FetchMonth(context.Background(), "2025-03")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAuthentication))
}

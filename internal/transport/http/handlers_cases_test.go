package httptransport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dentops/internal/cases"
	"dentops/internal/catalog"
	"dentops/internal/rules"
	"dentops/internal/validation"
)

// newTestRouter wires the handler over a real in-memory service stack, no
// auth middleware.
func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	resolver := catalog.NewResolver(catalog.NewChain(nil), nil)
	engine := validation.New(rules.DefaultCatalog(), nil, nil)
	service := cases.NewService(cases.NewInMemoryStore(), cases.NewPublisher(cases.NewInMemoryAuditStore()), resolver, engine, nil)

	r := chi.NewRouter()
	NewHandler(service, nil, nil).Register(r)
	return r
}

func doJSON(t *testing.T, router chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func openCase(t *testing.T, router chi.Router) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/cases", map[string]string{"patient_ref": "patient-042"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body["case_id"])
	return body["case_id"]
}

func selectHybrid(t *testing.T, router chi.Router, caseID string) {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/cases/"+caseID+"/product", map[string]any{
		"product_id":   "hybrid-1",
		"product_name": "Full Arch Hybrid",
		"catalog": map[string]any{
			"product_id":   "hybrid-1",
			"product_name": "Full Arch Hybrid",
			"types": []map[string]any{
				{"name": "Missing teeth", "status": "Active", "is_default": "Yes", "min_teeth": 1},
				{"name": "Implant", "status": "Active", "is_optional": "Yes", "max_teeth": 2},
			},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestOpenCase(t *testing.T) {
	router := newTestRouter(t)

	t.Run("creates a case", func(t *testing.T) {
		openCase(t, router)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/cases", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSelectProduct(t *testing.T) {
	router := newTestRouter(t)
	caseID := openCase(t, router)

	rec := doJSON(t, router, http.MethodPost, "/cases/"+caseID+"/product", map[string]any{
		"product_id":   "hybrid-1",
		"product_name": "Full Arch Hybrid",
		"catalog": map[string]any{
			"product_id":   "hybrid-1",
			"product_name": "Full Arch Hybrid",
			"types": []map[string]any{
				{"name": "Missing teeth", "status": "Active", "is_default": "Yes"},
				{"name": "Retired", "status": "Inactive", "is_default": "Yes"},
			},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Types []struct {
			Name string `json:"name"`
		} `json:"types"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Types, 1, "only eligible types are returned")
	assert.Equal(t, "Missing teeth", body.Types[0].Name)
}

func TestSetTeethValidation(t *testing.T) {
	router := newTestRouter(t)
	caseID := openCase(t, router)
	selectHybrid(t, router, caseID)

	t.Run("accepts a valid assignment", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/cases/"+caseID+"/teeth", map[string]any{
			"type":  "Implant",
			"arch":  "maxillary",
			"teeth": []int{1, 2},
		})
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("rejects an unknown arch", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/cases/"+caseID+"/teeth", map[string]any{
			"type": "Implant",
			"arch": "sideways",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown case is 404", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/cases/00000000-0000-0000-0000-000000000001/teeth", map[string]any{
			"type": "Implant",
			"arch": "maxillary",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed case id is 400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/cases/not-a-uuid/teeth", map[string]any{
			"type": "Implant",
			"arch": "maxillary",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestToggleTooth(t *testing.T) {
	router := newTestRouter(t)
	caseID := openCase(t, router)
	selectHybrid(t, router, caseID)

	rec := doJSON(t, router, http.MethodPost, "/cases/"+caseID+"/active-type", map[string]string{"type": "Implant"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	t.Run("toggles under the active type", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/cases/"+caseID+"/teeth/toggle", map[string]any{
			"arch":  "maxillary",
			"tooth": 4,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]bool
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body["toggled"])
	})

	t.Run("rejects an invalid tooth", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/cases/"+caseID+"/teeth/toggle", map[string]any{
			"arch":  "maxillary",
			"tooth": 45,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestArchSnapshotAndValidation(t *testing.T) {
	router := newTestRouter(t)
	caseID := openCase(t, router)
	selectHybrid(t, router, caseID)

	t.Run("snapshot shows the seeded default", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/cases/"+caseID+"/arches/maxillary", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var snap struct {
			TeethByType map[string][]int `json:"teeth_by_type"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
		assert.Len(t, snap.TeethByType["Missing teeth"], 16)
	})

	t.Run("seeded arch validates without extraction errors", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/cases/"+caseID+"/arches/maxillary/validation", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Results []struct {
				RuleID string `json:"rule_id"`
			} `json:"results"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		for _, r := range body.Results {
			assert.NotEqual(t, rules.StatusLegalityRuleID, r.RuleID)
			assert.NotEqual(t, rules.CardinalityRuleID, r.RuleID)
		}
	})

	t.Run("over-assigned type surfaces on its card", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/cases/"+caseID+"/teeth", map[string]any{
			"type":            "Implant",
			"arch":            "maxillary",
			"teeth":           []int{1, 2, 3},
			"preserve_others": false,
		})
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(t, router, http.MethodGet, "/cases/"+caseID+"/arches/maxillary/validation/types/Implant", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Result *struct {
				RuleID        string `json:"rule_id"`
				AffectedTeeth []int  `json:"affected_teeth"`
			} `json:"result"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.NotNil(t, body.Result)
		assert.Equal(t, rules.CardinalityRuleID, body.Result.RuleID)
		assert.Equal(t, []int{1, 2, 3}, body.Result.AffectedTeeth)
	})

	t.Run("first error reduces to the highest severity", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/cases/"+caseID+"/arches/maxillary/validation/first", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Result *struct {
				Severity string `json:"severity"`
			} `json:"result"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.NotNil(t, body.Result)
		assert.Equal(t, "error", body.Result.Severity)
	})

	t.Run("posted status override reaches the engine", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/cases/"+caseID+"/arches/maxillary/validation", map[string]any{
			"statuses": map[string]string{"8": "Crooked"},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Results []struct {
				RuleID  string `json:"rule_id"`
				Message string `json:"message"`
			} `json:"results"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

		var found bool
		for _, r := range body.Results {
			if r.RuleID == rules.StatusLegalityRuleID {
				found = true
				assert.Contains(t, r.Message, "Crooked")
			}
		}
		assert.True(t, found, "the overridden status should fail legality")
	})

	t.Run("override with an invalid tooth is 400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/cases/"+caseID+"/arches/maxillary/validation", map[string]any{
			"statuses": map[string]string{"45": "Crooked"},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown arch in the path is 400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/cases/"+caseID+"/arches/sideways/validation", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCleanupEndpoint(t *testing.T) {
	router := newTestRouter(t)
	caseID := openCase(t, router)
	selectHybrid(t, router, caseID)

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/cases/%s/cleanup", caseID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

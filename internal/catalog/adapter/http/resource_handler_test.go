package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"v5c-properties/internal/catalog/adapter/persistence/memory"
	"v5c-properties/internal/catalog/domain/model"
	"v5c-properties/internal/catalog/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const adminHeader = "X-Test-Admin"

type ResourceHandlerTestSuite struct {
	suite.Suite
	app *fiber.App
}

func newUsecase[T model.Entity](t *testing.T, resource model.Resource[T]) *usecase.ResourceUsecase[T] {
	uc, err := usecase.NewResourceUsecase(resource, memory.NewDocumentRepository(resource), nil, nil)
	require.NoError(t, err)
	return uc
}

// testGuard stands in for the admin guard of the auth module.
func testGuard(c *fiber.Ctx) error {
	if c.Get(adminHeader) != "yes" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
	}
	return c.Next()
}

func (s *ResourceHandlerTestSuite) SetupTest() {
	s.app = fiber.New()
	api := s.app.Group("/api")

	NewResourceHandler(newUsecase(s.T(), model.PropertyResource)).RegisterRoutes(api, testGuard)
	NewResourceHandler(newUsecase(s.T(), model.ServiceResource)).RegisterRoutes(api, testGuard)
	NewResourceHandler(newUsecase(s.T(), model.TestimonialResource)).RegisterRoutes(api, testGuard)
	NewResourceHandler(newUsecase(s.T(), model.LeadResource)).RegisterRoutes(api, testGuard)
}

func (s *ResourceHandlerTestSuite) do(method, path, body string, admin bool) (int, []byte) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set(adminHeader, "yes")
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	return resp.StatusCode, raw
}

func (s *ResourceHandlerTestSuite) decode(raw []byte) map[string]interface{} {
	var out map[string]interface{}
	require.NoError(s.T(), json.Unmarshal(raw, &out), string(raw))
	return out
}

func (s *ResourceHandlerTestSuite) create(path, body string) map[string]interface{} {
	status, raw := s.do(http.MethodPost, path, body, true)
	require.Equal(s.T(), http.StatusCreated, status, string(raw))
	return s.decode(raw)
}

func (s *ResourceHandlerTestSuite) TestCreateProperty_AppearsFirstInList() {
	s.create("/api/properties", `{"title":"Older"}`)
	created := s.create("/api/properties", `{"title":"Test Villa"}`)

	assert.NotEmpty(s.T(), created["_id"])
	assert.NotEmpty(s.T(), created["createdAt"])
	assert.Equal(s.T(), "Test Villa", created["title"])

	status, raw := s.do(http.MethodGet, "/api/properties", "", false)
	require.Equal(s.T(), http.StatusOK, status)

	var items []map[string]interface{}
	require.NoError(s.T(), json.Unmarshal(raw, &items))
	require.Len(s.T(), items, 2)
	assert.Equal(s.T(), created["_id"], items[0]["_id"])
	assert.Equal(s.T(), "Test Villa", items[0]["title"])
}

func (s *ResourceHandlerTestSuite) TestCreate_IgnoresClientMetadata() {
	clientID := primitive.NewObjectID().Hex()
	created := s.create("/api/services", `{"_id":"`+clientID+`","createdAt":"1999-01-01T00:00:00Z","__v":3,"title":"Golden Visa"}`)

	assert.NotEqual(s.T(), clientID, created["_id"])
	assert.NotEqual(s.T(), "1999-01-01T00:00:00Z", created["createdAt"])
	assert.NotContains(s.T(), created, "__v")
}

func (s *ResourceHandlerTestSuite) TestCreate_MissingRequiredField() {
	status, raw := s.do(http.MethodPost, "/api/services", `{}`, true)
	assert.Equal(s.T(), http.StatusBadRequest, status)
	assert.Equal(s.T(), "title is required", s.decode(raw)["error"])

	status, raw = s.do(http.MethodGet, "/api/services", "", false)
	require.Equal(s.T(), http.StatusOK, status)
	assert.JSONEq(s.T(), `[]`, string(raw))
}

func (s *ResourceHandlerTestSuite) TestCreate_EmptyBodyIsValidated() {
	status, raw := s.do(http.MethodPost, "/api/services", "", true)
	assert.Equal(s.T(), http.StatusBadRequest, status)
	assert.Equal(s.T(), "title is required", s.decode(raw)["error"])
}

func (s *ResourceHandlerTestSuite) TestCreate_MalformedBody() {
	for _, body := range []string{`{"title":`, `["a"]`, `"text"`} {
		status, raw := s.do(http.MethodPost, "/api/services", body, true)
		assert.Equal(s.T(), http.StatusBadRequest, status, body)
		assert.True(s.T(), strings.HasPrefix(s.decode(raw)["error"].(string), "invalid request body"), body)
	}
}

func (s *ResourceHandlerTestSuite) TestCreate_RejectsNonPDFBrochure() {
	status, raw := s.do(http.MethodPost, "/api/properties", `{"title":"Villa","brochure":"data:image/png;base64,AAAA"}`, true)
	assert.Equal(s.T(), http.StatusBadRequest, status)
	assert.Equal(s.T(), "brochure must be a PDF document", s.decode(raw)["error"])
}

func (s *ResourceHandlerTestSuite) TestGet() {
	created := s.create("/api/services", `{"title":"Golden Visa","image":"visa.jpg"}`)

	status, raw := s.do(http.MethodGet, "/api/services/"+created["_id"].(string), "", false)
	require.Equal(s.T(), http.StatusOK, status)
	got := s.decode(raw)
	assert.Equal(s.T(), "Golden Visa", got["title"])
	assert.Equal(s.T(), "visa.jpg", got["image"])
}

func (s *ResourceHandlerTestSuite) TestMissingItemsAreNotFound() {
	missing := primitive.NewObjectID().Hex()
	cases := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/services/" + missing, ""},
		{http.MethodGet, "/api/services/not-an-id", ""},
		{http.MethodPut, "/api/services/" + missing, `{"title":"x"}`},
		{http.MethodDelete, "/api/services/" + missing, ""},
		{http.MethodDelete, "/api/services/not-an-id", ""},
	}
	for _, tc := range cases {
		status, raw := s.do(tc.method, tc.path, tc.body, true)
		assert.Equal(s.T(), http.StatusNotFound, status, tc.method+" "+tc.path)
		assert.Equal(s.T(), "Item not found", s.decode(raw)["error"], tc.method+" "+tc.path)
	}
}

func (s *ResourceHandlerTestSuite) TestUpdate_ChangesOnlyPresentFields() {
	created := s.create("/api/properties", `{"title":"Villa","location":"Dubai Marina","beds":4}`)
	id := created["_id"].(string)

	status, raw := s.do(http.MethodGet, "/api/properties/"+id, "", false)
	require.Equal(s.T(), http.StatusOK, status)
	stored := s.decode(raw)

	status, raw = s.do(http.MethodPut, "/api/properties/"+id,
		`{"title":"Renamed","_id":"`+primitive.NewObjectID().Hex()+`","createdAt":"1999-01-01T00:00:00Z"}`, true)
	require.Equal(s.T(), http.StatusOK, status, string(raw))

	updated := s.decode(raw)
	assert.Equal(s.T(), id, updated["_id"])
	assert.Equal(s.T(), "Renamed", updated["title"])
	assert.Equal(s.T(), "Dubai Marina", updated["location"])
	assert.Equal(s.T(), "4", updated["beds"])
	assert.Equal(s.T(), stored["createdAt"], updated["createdAt"])
}

func (s *ResourceHandlerTestSuite) TestUpdate_ClearingRequiredFieldFails() {
	created := s.create("/api/services", `{"title":"Golden Visa"}`)

	status, raw := s.do(http.MethodPut, "/api/services/"+created["_id"].(string), `{"title":""}`, true)
	assert.Equal(s.T(), http.StatusBadRequest, status)
	assert.Equal(s.T(), "title is required", s.decode(raw)["error"])
}

func (s *ResourceHandlerTestSuite) TestDelete() {
	created := s.create("/api/services", `{"title":"Golden Visa"}`)
	path := "/api/services/" + created["_id"].(string)

	status, raw := s.do(http.MethodDelete, path, "", true)
	require.Equal(s.T(), http.StatusOK, status)
	assert.JSONEq(s.T(), `{"message":"Deleted successfully"}`, string(raw))

	status, _ = s.do(http.MethodGet, path, "", false)
	assert.Equal(s.T(), http.StatusNotFound, status)
}

func (s *ResourceHandlerTestSuite) TestWriteGuard() {
	status, _ := s.do(http.MethodPost, "/api/services", `{"title":"Golden Visa"}`, false)
	assert.Equal(s.T(), http.StatusUnauthorized, status)

	created := s.create("/api/services", `{"title":"Golden Visa"}`)
	path := "/api/services/" + created["_id"].(string)

	status, _ = s.do(http.MethodPut, path, `{"title":"x"}`, false)
	assert.Equal(s.T(), http.StatusUnauthorized, status)
	status, _ = s.do(http.MethodDelete, path, "", false)
	assert.Equal(s.T(), http.StatusUnauthorized, status)

	// Reads stay open.
	status, _ = s.do(http.MethodGet, path, "", false)
	assert.Equal(s.T(), http.StatusOK, status)

	// Public resources accept visitor submissions but not edits.
	status, raw := s.do(http.MethodPost, "/api/testimonials", `{"name":"Sarah","country":"UK","text":"Great service"}`, false)
	require.Equal(s.T(), http.StatusCreated, status, string(raw))
	review := "/api/testimonials/" + s.decode(raw)["_id"].(string)

	status, _ = s.do(http.MethodPut, review, `{"text":"edited"}`, false)
	assert.Equal(s.T(), http.StatusUnauthorized, status)
	status, _ = s.do(http.MethodDelete, review, "", false)
	assert.Equal(s.T(), http.StatusUnauthorized, status)
	status, _ = s.do(http.MethodGet, review, "", false)
	assert.Equal(s.T(), http.StatusOK, status)
	status, _ = s.do(http.MethodDelete, review, "", true)
	assert.Equal(s.T(), http.StatusOK, status)
}

func (s *ResourceHandlerTestSuite) TestWriteGuard_LeadsAreSubmitOnly() {
	status, raw := s.do(http.MethodPost, "/api/leads", `{"name":"Omar","email":"omar@example.com","phone":"+971501234567"}`, false)
	require.Equal(s.T(), http.StatusCreated, status, string(raw))
	lead := "/api/leads/" + s.decode(raw)["_id"].(string)

	for _, tc := range []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/leads", ""},
		{http.MethodGet, lead, ""},
		{http.MethodPut, lead, `{"phone":"0"}`},
		{http.MethodDelete, lead, ""},
	} {
		status, _ := s.do(tc.method, tc.path, tc.body, false)
		assert.Equal(s.T(), http.StatusUnauthorized, status, tc.method+" "+tc.path)
	}

	status, raw = s.do(http.MethodGet, "/api/leads", "", true)
	require.Equal(s.T(), http.StatusOK, status)
	var leads []map[string]interface{}
	require.NoError(s.T(), json.Unmarshal(raw, &leads))
	require.Len(s.T(), leads, 1)
	assert.Equal(s.T(), "omar@example.com", leads[0]["email"])
}

func TestResourceHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ResourceHandlerTestSuite))
}

func TestSanitizeBody(t *testing.T) {
	out, err := sanitizeBody([]byte(`  `))
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(out))

	out, err = sanitizeBody([]byte(`{"_id":"x","createdAt":"y","updatedAt":"z","seeded":true,"__v":0,"title":"kept"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"kept"}`, string(out))

	_, err = sanitizeBody([]byte(`[1,2]`))
	assert.Error(t, err)
}

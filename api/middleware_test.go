package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"plottwist/domain/entities"
	"plottwist/domain/testhelpers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newAuthTestRouter(profileRepo *testhelpers.MockProfileRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/protected", RequireAuth(profileRepo), func(c *gin.Context) {
		profile := currentProfile(c)
		c.JSON(http.StatusOK, gin.H{"handle": profile.Handle})
	})
	return engine
}

func TestRequireAuth_MissingToken(t *testing.T) {
	profileRepo := &testhelpers.MockProfileRepository{}
	engine := newAuthTestRouter(profileRepo)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	engine.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	profileRepo.AssertNotCalled(t, "GetByAPIToken", mock.Anything, mock.Anything)
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	profileRepo := &testhelpers.MockProfileRepository{}
	engine := newAuthTestRouter(profileRepo)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	engine.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRequireAuth_UnknownToken(t *testing.T) {
	profileRepo := &testhelpers.MockProfileRepository{}
	profileRepo.On("GetByAPIToken", mock.Anything, "bogus-token").Return(nil, nil)
	engine := newAuthTestRouter(profileRepo)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bogus-token")
	engine.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	profileRepo.AssertExpectations(t)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	profile := &entities.Profile{ID: 1, Handle: "token_holder", APIToken: "good-token"}
	profileRepo := &testhelpers.MockProfileRepository{}
	profileRepo.On("GetByAPIToken", mock.Anything, "good-token").Return(profile, nil)
	engine := newAuthTestRouter(profileRepo)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	engine.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "token_holder")
	profileRepo.AssertExpectations(t)
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestLogger())
	engine.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	engine.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
}

// file: middleware/role_test.go
package middleware

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go-event-admin/models"
)

func TestRoleRequired_Admin(t *testing.T) {
	w := get(setupAuthTestRouter(t, signedIn(models.RoleAdmin)), "/users")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "users", w.Body.String())
}

func TestRoleRequired_WrongRoleRendersDenied(t *testing.T) {
	w := get(setupAuthTestRouter(t, signedIn(models.RoleAttendee)), "/users")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
	assert.Contains(t, w.Body.String(), "denied: needs Administrator")
}

func TestRoleRequired_UnknownProfilePasses(t *testing.T) {
	w := get(setupAuthTestRouter(t, signedIn("")), "/users")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoleRequired_JSONCaller(t *testing.T) {
	w := get(setupAuthTestRouter(t, signedIn(models.RoleOrganizer)), "/users", "Accept", "application/json")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRoleRequired_NotAuthenticatedRedirectsFirst(t *testing.T) {
	w := get(setupAuthTestRouter(t, anonymous()), "/users")
	assert.Equal(t, http.StatusFound, w.Code)
}

package http

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/njprem/MagicBilling_BackEnd/internal/service"
)

var resetPageTemplate = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8" />
<meta name="viewport" content="width=device-width, initial-scale=1.0" />
<title>Reset password</title>
<style>
body { font-family: Arial, sans-serif; margin: 0; background: #f4f6fb; color: #222; min-height: 100vh; display: flex; align-items: center; justify-content: center; }
.card { background: #fff; padding: 28px; border-radius: 8px; width: 90%; max-width: 400px; box-shadow: 0 10px 40px rgba(0,0,0,0.08); }
input { width: 100%; padding: 10px; margin: 8px 0; border: 1px solid #ccc; border-radius: 4px; box-sizing: border-box; }
button { width: 100%; padding: 12px; border: none; border-radius: 4px; background: #2f6fed; color: #fff; font-size: 15px; cursor: pointer; }
.error { color: #b00020; }
.success { color: #137333; }
</style>
</head>
<body>
<div class="card">
  <h2>Choose a new password</h2>
  {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
  {{if .Success}}<p class="success">{{.Success}}</p>{{else if .Token}}
  <form method="post" action="/api/v1/auth/reset-password">
    <input type="hidden" name="token" value="{{.Token}}" />
    <input type="hidden" name="user_id" value="{{.UserID}}" />
    <input type="password" name="new_password" placeholder="New password" required />
    <input type="password" name="confirm_password" placeholder="Confirm password" required />
    <button type="submit">Reset password</button>
  </form>{{end}}
</div>
</body>
</html>`))

type resetPage struct {
	Token   string
	UserID  string
	Error   string
	Success string
}

func renderResetPage(c echo.Context, status int, page resetPage) error {
	var buf bytes.Buffer
	if err := resetPageTemplate.Execute(&buf, page); err != nil {
		return c.String(http.StatusInternalServerError, "unable to render page")
	}
	return c.HTMLBlob(status, buf.Bytes())
}

// resetPasswordPage serves the form linked from reset emails. The token is
// only checked when the form is submitted.
func (h *AuthHandler) resetPasswordPage(c echo.Context) error {
	page := resetPage{
		Token:  strings.TrimSpace(c.QueryParam("token")),
		UserID: strings.TrimSpace(c.QueryParam("id")),
	}
	if page.Token == "" || page.UserID == "" {
		page.Token, page.UserID = "", ""
		page.Error = "Invalid link: missing token or user ID."
		return renderResetPage(c, http.StatusBadRequest, page)
	}
	return renderResetPage(c, http.StatusOK, page)
}

func resetFailureMessage(err error) string {
	var svcErr *service.Error
	if errors.As(err, &svcErr) && svcErr.Kind != service.KindDependency {
		return svcErr.Message
	}
	return "Failed to reset password. Please try again later."
}

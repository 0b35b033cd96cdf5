package logger

import (
	"bytes"
	"errors"
	"log"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	fn()
	return buf.String()
}

func TestFormatFieldsSortsKeys(t *testing.T) {
	out := formatFields(Fields{"b": 2, "a": "x", "c": 1.5})
	assert.Equal(t, "{a=x, b=2, c=1.50}", out)
	assert.Empty(t, formatFields(nil))
}

func TestLevelsPrefix(t *testing.T) {
	out := captureLog(t, func() {
		Info("hello", Fields{"k": "v"})
		Warn("careful", nil)
		Debug("details", nil)
		Error("broken", errors.New("boom"), Fields{"request_id": "r1"})
	})

	assert.Contains(t, out, "[INFO] hello {k=v}")
	assert.Contains(t, out, "[WARN] careful")
	assert.Contains(t, out, "[DEBUG] details")
	assert.Contains(t, out, "[ERROR] broken: boom {request_id=r1}")
}

func TestWithContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/presets", nil)
	c.Set("request_id", "abc")

	fields := WithContext(c)
	assert.Equal(t, "abc", fields["request_id"])
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/presets", fields["path"])
}

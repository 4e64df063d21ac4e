package mock

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	allowOriginHeader      = "Access-Control-Allow-Origin"
	allowHeadersHeader     = "Access-Control-Allow-Headers"
	allowMethodsHeader     = "Access-Control-Allow-Methods"
	requestMethodHeader    = "Access-Control-Request-Method"
	allowCredentialsHeader = "Access-Control-Allow-Credentials"
	exposeHeadersHeader    = "Access-Control-Expose-Headers"
	maxAgeHeader           = "Access-Control-Max-Age"
)

// Cors configures the cross origin headers of the mock API so a browser
// front end served from another origin can call it.
type Cors struct {
	AllowCredentials bool     `yaml:"allowCredentials,omitempty"`
	AllowHeaders     []string `yaml:"allowHeaders,omitempty"`
	AllowOrigins     []string `yaml:"allowOrigins,omitempty"`
	ExposeHeaders    []string `yaml:"exposeHeaders,omitempty"`
	MaxAge           int      `yaml:"maxAge,omitempty"`
}

// DefaultCors allows any origin.
func DefaultCors() *Cors {
	return &Cors{
		AllowCredentials: true,
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Request-ID"},
		AllowOrigins:     []string{"*"},
		ExposeHeaders:    []string{"X-Request-ID"},
		MaxAge:           600,
	}
}

func (c *Cors) allowed(origin string) bool {
	for _, candidate := range c.AllowOrigins {
		if candidate == "*" || candidate == origin {
			return true
		}
	}
	return false
}

// middleware sets CORS headers and answers preflight requests.
func (c *Cors) middleware(ctx *gin.Context) {
	origin := ctx.GetHeader("Origin")
	if origin == "" || !c.allowed(origin) {
		ctx.Next()
		return
	}
	header := ctx.Writer.Header()
	header.Set(allowOriginHeader, origin)
	header.Add("Vary", "Origin")
	if c.AllowCredentials {
		header.Set(allowCredentialsHeader, "true")
	}
	if len(c.ExposeHeaders) > 0 {
		header.Set(exposeHeadersHeader, strings.Join(c.ExposeHeaders, ", "))
	}
	if ctx.Request.Method != http.MethodOptions {
		ctx.Next()
		return
	}
	method := ctx.GetHeader(requestMethodHeader)
	if method == "" {
		method = ctx.Request.Method
	}
	header.Set(allowMethodsHeader, method)
	if len(c.AllowHeaders) > 0 {
		header.Set(allowHeadersHeader, strings.Join(c.AllowHeaders, ", "))
	}
	if c.MaxAge > 0 {
		header.Set(maxAgeHeader, strconv.Itoa(c.MaxAge))
	}
	ctx.AbortWithStatus(http.StatusNoContent)
}

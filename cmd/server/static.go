package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"houseprice/web"
)

// setupStaticFiles loads the page template and serves the embedded assets
func setupStaticFiles(router *gin.Engine) error {
	tmpl, err := web.Templates()
	if err != nil {
		return err
	}
	router.SetHTMLTemplate(tmpl)
	router.StaticFS("/static", http.FS(web.Static()))

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}
		c.Redirect(http.StatusFound, "/")
	})
	return nil
}

package api

import "github.com/gin-gonic/gin"

// RegisterRoutes wires every route onto the engine. Everything except the
// login and registration pages sits behind RequireLogin.
func (impl *ServerImpl) RegisterRoutes(router *gin.Engine) {
	router.Use(impl.SessionMiddleware())

	router.GET("/login", impl.GetLogin)
	router.POST("/login", impl.PostLogin)
	router.GET("/register", impl.GetRegister)
	router.POST("/register", impl.PostRegister)

	authed := router.Group("/", impl.RequireLogin())
	authed.GET("/", impl.GetGallery)
	authed.GET("/logout", impl.GetLogout)
	authed.GET("/upload", impl.GetUpload)
	authed.POST("/upload", impl.PostUpload)
	authed.GET("/download/:filename", impl.GetDownload)
	authed.POST("/delete/:photoID", impl.PostDelete)
}

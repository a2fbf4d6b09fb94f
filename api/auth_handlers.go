package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"photoshare/adapters/session"
)

// Render the login form
// (GET /login)
func (impl *ServerImpl) GetLogin(c *gin.Context) {
	const op = "GetLogin"
	user, err := impl.currentUser(c)
	if err != nil {
		impl.serverError(c, op, err)
		return
	}
	if user != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// Authenticate and open a session
// (POST /login)
func (impl *ServerImpl) PostLogin(c *gin.Context) {
	const op = "PostLogin"
	current, err := impl.currentUser(c)
	if err != nil {
		impl.serverError(c, op, err)
		return
	}
	if current != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := impl.users.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		impl.serverError(c, op, err)
		return
	}
	if user == nil {
		// no detail: unknown user and wrong password look the same
		c.HTML(http.StatusOK, "login.html", gin.H{})
		return
	}

	sess, err := session.GetSession(c)
	if err != nil {
		impl.serverError(c, op, err)
		return
	}
	sess.Set(SESSION_KEY_USER_ID, strconv.FormatUint(uint64(user.ID), 10))
	if err := sess.Save(); err != nil {
		impl.serverError(c, op, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Close the session
// (GET /logout)
func (impl *ServerImpl) GetLogout(c *gin.Context) {
	const op = "GetLogout"
	sess, err := session.GetSession(c)
	if err != nil {
		impl.serverError(c, op, err)
		return
	}
	sess.Clear()
	if err := sess.Save(); err != nil {
		impl.serverError(c, op, err)
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

// Render the registration form
// (GET /register)
func (impl *ServerImpl) GetRegister(c *gin.Context) {
	const op = "GetRegister"
	user, err := impl.currentUser(c)
	if err != nil {
		impl.serverError(c, op, err)
		return
	}
	if user != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "register.html", gin.H{})
}

// Create an account
// (POST /register)
func (impl *ServerImpl) PostRegister(c *gin.Context) {
	const op = "PostRegister"
	current, err := impl.currentUser(c)
	if err != nil {
		impl.serverError(c, op, err)
		return
	}
	if current != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	username := c.PostForm("username")
	password := c.PostForm("password")

	// check-then-act; the unique index covers the race between two
	// concurrent registrations of the same name
	existing, err := impl.users.LookupByUsername(c.Request.Context(), username)
	if err != nil {
		impl.serverError(c, op, err)
		return
	}
	if existing != nil {
		c.HTML(http.StatusOK, "register.html", gin.H{"Error": "Username already exists"})
		return
	}

	if _, err := impl.users.Create(c.Request.Context(), username, password); err != nil {
		impl.serverError(c, op, err)
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

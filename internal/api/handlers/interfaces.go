package handlers

import "github.com/gin-gonic/gin"

// AuthHandlerInterface defines the methods needed by the auth routes.
type AuthHandlerInterface interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Refresh(c *gin.Context)
	GetProfile(c *gin.Context)
	UpdateProfile(c *gin.Context)
	DeleteAccount(c *gin.Context)
}

// PostingHandlerInterface defines the methods needed by the job routes.
type PostingHandlerInterface interface {
	SearchJobs(c *gin.Context)
	GetJob(c *gin.Context)
	CreateJob(c *gin.Context)
	UpdateJob(c *gin.Context)
	DeleteJob(c *gin.Context)
}

// ApplicationHandlerInterface defines the methods needed by the application routes.
type ApplicationHandlerInterface interface {
	Apply(c *gin.Context)
	CancelApplication(c *gin.Context)
	ListApplications(c *gin.Context)
}

// BookmarkHandlerInterface defines the methods needed by the bookmark and resume routes.
type BookmarkHandlerInterface interface {
	ToggleBookmark(c *gin.Context)
	ListBookmarks(c *gin.Context)
	ListResumes(c *gin.Context)
}

var _ AuthHandlerInterface = (*AuthHandler)(nil)
var _ PostingHandlerInterface = (*PostingHandler)(nil)
var _ ApplicationHandlerInterface = (*ApplicationHandler)(nil)
var _ BookmarkHandlerInterface = (*BookmarkHandler)(nil)

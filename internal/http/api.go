package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"studyvault/internal/domain"
	"studyvault/internal/service"
	"studyvault/internal/session"
)

const sessionCookie = "studyvault_session"

const accountIDKey = "accountID"

// Handler wires HTTP routes to domain services.
type Handler struct {
	accounts service.AccountService
	catalog  service.CatalogService
	files    service.FileService
	stats    service.StatsService

	sessions      *session.Manager
	sessionSecret []byte
	sessionTTL    time.Duration
	secureCookies bool
}

func NewHandler(
	accounts service.AccountService,
	catalog service.CatalogService,
	files service.FileService,
	stats service.StatsService,
	sessions *session.Manager,
	sessionSecret string,
	sessionTTL time.Duration,
	secureCookies bool,
) *Handler {
	return &Handler{
		accounts:      accounts,
		catalog:       catalog,
		files:         files,
		stats:         stats,
		sessions:      sessions,
		sessionSecret: []byte(sessionSecret),
		sessionTTL:    sessionTTL,
		secureCookies: secureCookies,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", h.signup)
			auth.POST("/verify", h.verify)
			auth.POST("/resend-verification", h.resendVerification)
			auth.POST("/login", h.login)
			auth.POST("/logout", h.logout)
			auth.GET("/me", h.currentUser)
		}

		api.GET("/colleges", h.listColleges)
		api.POST("/colleges", h.createCollege)
		api.GET("/colleges/:slug", h.getCollege)
		api.GET("/colleges/:slug/departments", h.listCollegeDepartments)

		api.POST("/departments", h.createDepartment)
		api.GET("/departments/:slug", h.getDepartment)
		api.GET("/departments/:slug/courses", h.listDepartmentCourses)

		api.POST("/courses", h.createCourse)
		api.GET("/courses/:id", h.getCourse)
		api.GET("/courses/:id/files", h.listCourseFiles)

		api.POST("/files", h.requireAuth, h.uploadFile)
		api.POST("/files/:id/download", h.requireAuth, h.downloadFile)
		api.GET("/me/downloads", h.requireAuth, h.listMyDownloads)

		api.GET("/stats", h.getStats)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requireAuth resolves the session cookie to an account id. A cookie that no
// longer maps to a live session yields 401, never a crash.
func (h *Handler) requireAuth(c *gin.Context) {
	s, ok := h.resolveSession(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": service.ErrNotAuthenticated.Error()})
		return
	}
	c.Set(accountIDKey, s.AccountID)
	c.Next()
}

func (h *Handler) resolveSession(c *gin.Context) (session.Session, bool) {
	cookie, err := c.Cookie(sessionCookie)
	if err != nil || cookie == "" {
		return session.Session{}, false
	}
	sid, err := session.SessionIDFromToken(cookie, h.sessionSecret)
	if err != nil {
		return session.Session{}, false
	}
	return h.sessions.Get(sid)
}

// --- auth ---

type signupRequest struct {
	Email       string `json:"email" binding:"required"`
	DisplayName string `json:"displayName"`
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	vaultID, err := h.accounts.Signup(c.Request.Context(), req.Email, req.DisplayName)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"vaultId": vaultID,
		"message": "Account created. Check your email for a verification link.",
	})
}

type verifyRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h *Handler) verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	vaultID, err := h.accounts.Verify(c.Request.Context(), req.Token)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vaultId": vaultID,
		"message": "Email verified. You can now log in with your Vault ID.",
	})
}

type resendRequest struct {
	Email string `json:"email" binding:"required"`
}

func (h *Handler) resendVerification(c *gin.Context) {
	var req resendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := h.accounts.ResendVerification(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	// Same response whether or not the email has an account.
	c.JSON(http.StatusOK, gin.H{
		"message": "If a pending account exists for this email, a new verification link was sent.",
	})
}

type loginRequest struct {
	VaultID string `json:"vaultId" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	account, err := h.accounts.Login(c.Request.Context(), req.VaultID)
	if err != nil {
		respondError(c, err)
		return
	}

	s := h.sessions.Create(account.ID)
	token, err := session.MintToken(s, h.sessionSecret)
	if err != nil {
		respondError(c, err)
		return
	}
	c.SetCookie(sessionCookie, token, int(h.sessionTTL.Seconds()), "/", "", h.secureCookies, true)

	c.JSON(http.StatusOK, accountToResponse(account))
}

func (h *Handler) currentUser(c *gin.Context) {
	s, ok := h.resolveSession(c)
	if !ok {
		respondError(c, service.ErrNotAuthenticated)
		return
	}

	account, err := h.accounts.GetByID(c.Request.Context(), s.AccountID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			// The bound account is gone; drop the session instead of crashing.
			h.sessions.Destroy(s.ID)
			h.clearSessionCookie(c)
			respondError(c, service.ErrNotAuthenticated)
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, accountToResponse(account))
}

func (h *Handler) logout(c *gin.Context) {
	if cookie, err := c.Cookie(sessionCookie); err == nil && cookie != "" {
		if sid, err := session.SessionIDFromToken(cookie, h.sessionSecret); err == nil {
			h.sessions.Destroy(sid)
		}
	}
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out."})
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", h.secureCookies, true)
}

// --- catalog ---

type createCollegeRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description"`
}

func (h *Handler) createCollege(c *gin.Context) {
	var req createCollegeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	college, err := h.catalog.CreateCollege(c.Request.Context(), req.Name, req.Slug, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, collegeToResponse(*college))
}

func (h *Handler) listColleges(c *gin.Context) {
	colleges, err := h.catalog.Colleges(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]CollegeResponse, len(colleges))
	for i := range colleges {
		resp[i] = collegeToResponse(colleges[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getCollege(c *gin.Context) {
	college, err := h.catalog.CollegeBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, collegeToResponse(*college))
}

func (h *Handler) listCollegeDepartments(c *gin.Context) {
	departments, err := h.catalog.DepartmentsByCollegeSlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]DepartmentResponse, len(departments))
	for i := range departments {
		resp[i] = departmentToResponse(departments[i])
	}
	c.JSON(http.StatusOK, resp)
}

type createDepartmentRequest struct {
	CollegeID string `json:"collegeId" binding:"required"`
	Code      string `json:"code" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Slug      string `json:"slug" binding:"required"`
}

func (h *Handler) createDepartment(c *gin.Context) {
	var req createDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	department, err := h.catalog.CreateDepartment(c.Request.Context(), req.CollegeID, req.Code, req.Name, req.Slug)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, departmentToResponse(*department))
}

func (h *Handler) getDepartment(c *gin.Context) {
	department, err := h.catalog.DepartmentBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, departmentToResponse(*department))
}

func (h *Handler) listDepartmentCourses(c *gin.Context) {
	var level *int
	if raw := c.Query("level"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid level"})
			return
		}
		level = &parsed
	}

	courses, err := h.catalog.CoursesByDepartmentSlug(c.Request.Context(), c.Param("slug"), level)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]CourseResponse, len(courses))
	for i := range courses {
		resp[i] = courseToResponse(courses[i])
	}
	c.JSON(http.StatusOK, resp)
}

type createCourseRequest struct {
	DepartmentID string `json:"departmentId" binding:"required"`
	Code         string `json:"code" binding:"required"`
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	Level        int    `json:"level" binding:"required"`
	Semester     string `json:"semester"`
}

func (h *Handler) createCourse(c *gin.Context) {
	var req createCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	course, err := h.catalog.CreateCourse(c.Request.Context(), req.DepartmentID, req.Code, req.Title, req.Description, req.Level, req.Semester)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, courseToResponse(*course))
}

func (h *Handler) getCourse(c *gin.Context) {
	course, err := h.catalog.CourseByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, courseToResponse(*course))
}

func (h *Handler) listCourseFiles(c *gin.Context) {
	files, err := h.files.FilesByCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]FileResponse, len(files))
	for i := range files {
		resp[i] = fileToResponse(files[i])
	}
	c.JSON(http.StatusOK, resp)
}

// --- files ---

type uploadFileRequest struct {
	DepartmentID string `json:"departmentId" binding:"required"`
	Level        int    `json:"level" binding:"required"`
	CourseCode   string `json:"courseCode" binding:"required"`
	CourseTitle  string `json:"courseTitle"`
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	FileName     string `json:"fileName" binding:"required"`
	FileType     string `json:"fileType"`
	FileSize     int64  `json:"fileSize"`
}

func (h *Handler) uploadFile(c *gin.Context) {
	var req uploadFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	file, err := h.files.Upload(c.Request.Context(), c.GetString(accountIDKey), service.UploadInput{
		DepartmentID: req.DepartmentID,
		Level:        req.Level,
		CourseCode:   req.CourseCode,
		CourseTitle:  req.CourseTitle,
		Title:        req.Title,
		Description:  req.Description,
		FileName:     req.FileName,
		FileType:     req.FileType,
		FileSize:     req.FileSize,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fileToResponse(*file))
}

func (h *Handler) downloadFile(c *gin.Context) {
	file, err := h.files.Download(c.Request.Context(), c.Param("id"), c.GetString(accountIDKey))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fileToResponse(*file))
}

func (h *Handler) listMyDownloads(c *gin.Context) {
	downloads, err := h.files.UserDownloads(c.Request.Context(), c.GetString(accountIDKey))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]DownloadResponse, len(downloads))
	for i := range downloads {
		resp[i] = downloadToResponse(downloads[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getStats(c *gin.Context) {
	stats, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// respondError maps the service error taxonomy to HTTP statuses. Every error
// keeps a distinct user-facing message; anything unmapped is a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrExpiredToken):
		c.JSON(http.StatusGone, gin.H{"message": err.Error(), "canResend": true})
	case errors.Is(err, service.ErrInvalidCredential):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrUnverifiedAccount):
		c.JSON(http.StatusForbidden, gin.H{"message": "Please verify your email before logging in. Check your inbox."})
	case errors.Is(err, service.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrDelivery):
		c.JSON(http.StatusBadGateway, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	}
}

// --- responses ---

type AccountResponse struct {
	ID            string `json:"id"`
	VaultID       string `json:"vaultId"`
	Email         string `json:"email"`
	DisplayName   string `json:"displayName"`
	Reputation    int    `json:"reputation"`
	EmailVerified bool   `json:"emailVerified"`
	CreatedAt     string `json:"createdAt"`
}

type CollegeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type DepartmentResponse struct {
	ID        string `json:"id"`
	CollegeID string `json:"collegeId"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
}

type CourseResponse struct {
	ID           string `json:"id"`
	DepartmentID string `json:"departmentId"`
	Code         string `json:"code"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Level        int    `json:"level"`
	Semester     string `json:"semester"`
}

type FileResponse struct {
	ID            string `json:"id"`
	CourseID      string `json:"courseId"`
	UserID        string `json:"userId"`
	Title         string `json:"title"`
	FileName      string `json:"fileName"`
	FileType      string `json:"fileType"`
	FileURL       string `json:"fileUrl"`
	FileSize      int64  `json:"fileSize"`
	Verified      bool   `json:"verified"`
	DownloadCount int    `json:"downloadCount"`
	UploadedAt    string `json:"uploadedAt"`
}

type DownloadResponse struct {
	ID           string `json:"id"`
	FileID       string `json:"fileId"`
	UserID       string `json:"userId"`
	DownloadedAt string `json:"downloadedAt"`
}

func accountToResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:            account.ID,
		VaultID:       account.VaultID,
		Email:         account.Email,
		DisplayName:   account.DisplayName,
		Reputation:    account.Reputation,
		EmailVerified: account.EmailVerified,
		CreatedAt:     account.CreatedAt.Format(time.RFC3339),
	}
}

func collegeToResponse(c domain.College) CollegeResponse {
	return CollegeResponse{ID: c.ID, Name: c.Name, Slug: c.Slug, Description: c.Description}
}

func departmentToResponse(d domain.Department) DepartmentResponse {
	return DepartmentResponse{ID: d.ID, CollegeID: d.CollegeID, Code: d.Code, Name: d.Name, Slug: d.Slug}
}

func courseToResponse(c domain.Course) CourseResponse {
	return CourseResponse{
		ID:           c.ID,
		DepartmentID: c.DepartmentID,
		Code:         c.Code,
		Title:        c.Title,
		Description:  c.Description,
		Level:        c.Level,
		Semester:     c.Semester,
	}
}

func fileToResponse(f domain.File) FileResponse {
	return FileResponse{
		ID:            f.ID,
		CourseID:      f.CourseID,
		UserID:        f.UserID,
		Title:         f.Title,
		FileName:      f.FileName,
		FileType:      f.FileType,
		FileURL:       f.FileURL,
		FileSize:      f.FileSize,
		Verified:      f.Verified,
		DownloadCount: f.DownloadCount,
		UploadedAt:    f.UploadedAt.Format(time.RFC3339),
	}
}

func downloadToResponse(d domain.Download) DownloadResponse {
	return DownloadResponse{
		ID:           d.ID,
		FileID:       d.FileID,
		UserID:       d.UserID,
		DownloadedAt: d.DownloadedAt.Format(time.RFC3339),
	}
}

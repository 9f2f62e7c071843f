package mockapi

import (
	"net/http"
	"time"

	analyticstransport "github.com/ivenhartford/LCH-sub002/internal/analytics/transport"
	appttransport "github.com/ivenhartford/LCH-sub002/internal/appointments/transport"
	authtransport "github.com/ivenhartford/LCH-sub002/internal/auth/transport"
	clienttransport "github.com/ivenhartford/LCH-sub002/internal/clients/transport"
	"github.com/ivenhartford/LCH-sub002/internal/config"
	identitytransport "github.com/ivenhartford/LCH-sub002/internal/identity/transport"
	patienttransport "github.com/ivenhartford/LCH-sub002/internal/patients/transport"
	"github.com/ivenhartford/LCH-sub002/platform/httpkit"
	"github.com/ivenhartford/LCH-sub002/platform/logger"
	"github.com/ivenhartford/LCH-sub002/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest     = "invalid request"
	msgValidationFailed   = "validation failed"
	msgInvalidID          = "invalid id"
	msgInvalidCredentials = "invalid credentials"
	msgNotFound           = "not found"

	accessTokenTTL  = 8 * time.Hour
	searchHardLimit = 25
	dateFormat      = "2006-01-02"
)

// Handler serves the development API endpoints.
type Handler struct {
	store *Store
	val   *validator.Validator
	cfg   *config.Config
	log   *logger.Logger
}

// NewHandler creates the handler set for the development API.
func NewHandler(store *Store, val *validator.Validator, cfg *config.Config, log *logger.Logger) *Handler {
	return &Handler{store: store, val: val, cfg: cfg, log: log}
}

// SignIn authenticates a fixture user and mints an access token.
// POST /api/auth/login
func (h *Handler) SignIn(c *gin.Context) {
	var req authtransport.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	account, ok := h.store.Authenticate(req.Email, req.Password)
	if !ok {
		h.log.Warn("sign-in rejected", "email", req.Email)
		httpkit.Error(c, http.StatusUnauthorized, msgInvalidCredentials, nil)
		return
	}

	token, err := h.signAccessToken(account)
	if httpkit.HandleError(c, err) {
		return
	}
	h.log.Info("sign-in ok", "user_id", account.ID.String())
	httpkit.OK(c, authtransport.AuthResponse{AccessToken: token})
}

func (h *Handler) signAccessToken(account Account) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   account.ID.String(),
		"type":  "access",
		"email": account.Email,
		"name":  account.FirstName + " " + account.LastName,
		"roles": account.Roles,
		"exp":   now.Add(accessTokenTTL).Unix(),
		"iat":   now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.cfg.MockJWTSecret))
}

// Health reports liveness.
// GET /healthz
func (h *Handler) Health(c *gin.Context) {
	httpkit.OK(c, gin.H{"status": "ok"})
}

// ListClients retrieves clients, optionally filtered by a search term.
// GET /api/clients
func (h *Handler) ListClients(c *gin.Context) {
	var req clienttransport.ListClientsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if req.Page == 0 && req.PageSize == 0 {
		// Bare search requests from the global search bar get a flat list.
		httpkit.OK(c, clienttransport.ClientListResponse{
			Clients: h.store.SearchClients(req.Search, searchHardLimit),
		})
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	httpkit.OK(c, h.store.ListClients(req.Search, req.Page, req.PageSize))
}

// GetClient retrieves a client with their patients.
// GET /api/clients/:id
func (h *Handler) GetClient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	detail, ok := h.store.GetClient(id)
	if !ok {
		httpkit.Error(c, http.StatusNotFound, msgNotFound, nil)
		return
	}
	httpkit.OK(c, detail)
}

// CreateClient registers a new client.
// POST /api/clients
func (h *Handler) CreateClient(c *gin.Context) {
	var req clienttransport.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	httpkit.JSON(c, http.StatusCreated, h.store.CreateClient(req))
}

// UpdateClient updates client fields.
// PUT /api/clients/:id
func (h *Handler) UpdateClient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req clienttransport.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	updated, ok := h.store.UpdateClient(id, req)
	if !ok {
		httpkit.Error(c, http.StatusNotFound, msgNotFound, nil)
		return
	}
	httpkit.OK(c, updated)
}

// ListPatients retrieves patients, optionally filtered by search and status.
// GET /api/patients
func (h *Handler) ListPatients(c *gin.Context) {
	var req patienttransport.ListPatientsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if req.Page == 0 && req.PageSize == 0 {
		httpkit.OK(c, patienttransport.PatientListResponse{
			Patients: h.store.SearchPatients(req.Search, searchHardLimit),
		})
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	httpkit.OK(c, h.store.ListPatients(req.Search, req.Status, req.Page, req.PageSize))
}

// GetPatient retrieves a patient with owner and upcoming visits.
// GET /api/patients/:id
func (h *Handler) GetPatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	detail, ok := h.store.GetPatient(id)
	if !ok {
		httpkit.Error(c, http.StatusNotFound, msgNotFound, nil)
		return
	}
	httpkit.OK(c, detail)
}

// ListAppointments retrieves appointments by date range, or by search term
// when no range is given.
// GET /api/appointments
func (h *Handler) ListAppointments(c *gin.Context) {
	var req appttransport.ListAppointmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if req.StartFrom == "" && req.StartTo == "" {
		search := c.Query("search")
		httpkit.OK(c, appttransport.AppointmentListResponse{
			Appointments: h.store.SearchAppointments(search, searchHardLimit),
		})
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	from, err := time.ParseInLocation(dateFormat, req.StartFrom, time.Local)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	to, err := time.ParseInLocation(dateFormat, req.StartTo, time.Local)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	httpkit.OK(c, appttransport.AppointmentListResponse{
		Appointments: h.store.RangeAppointments(from, to),
	})
}

// GetAppointment retrieves one appointment.
// GET /api/appointments/:id
func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	appt, ok := h.store.GetAppointment(id)
	if !ok {
		httpkit.Error(c, http.StatusNotFound, msgNotFound, nil)
		return
	}
	httpkit.OK(c, appt)
}

// CreateAppointment books a new appointment.
// POST /api/appointments
func (h *Handler) CreateAppointment(c *gin.Context) {
	var req appttransport.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	created, err := h.store.CreateAppointment(req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, created)
}

// UpdateAppointmentStatus sets an appointment's status.
// PATCH /api/appointments/:id/status
func (h *Handler) UpdateAppointmentStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req appttransport.UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	updated, ok := h.store.UpdateAppointmentStatus(id, req.Status)
	if !ok {
		httpkit.Error(c, http.StatusNotFound, msgNotFound, nil)
		return
	}
	httpkit.OK(c, updated)
}

// Dashboard retrieves the landing screen stats and today's schedule.
// GET /api/dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	httpkit.OK(c, h.store.Dashboard())
}

// Analytics retrieves revenue and species mix figures.
// GET /api/analytics
func (h *Handler) Analytics(c *gin.Context) {
	var req analyticstransport.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	months := req.Months
	if months <= 0 {
		months = 6
	}
	httpkit.OK(c, h.store.Analytics(months))
}

// Profile retrieves the signed-in user's profile.
// GET /api/profile
func (h *Handler) Profile(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	profile, ok := h.store.Profile(identity.UserID())
	if !ok {
		httpkit.Error(c, http.StatusNotFound, msgNotFound, nil)
		return
	}
	httpkit.OK(c, profile)
}

// UpdateProfile updates the signed-in user's profile.
// PUT /api/profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	var req identitytransport.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	profile, ok := h.store.UpdateProfile(identity.UserID(), req)
	if !ok {
		httpkit.Error(c, http.StatusNotFound, msgNotFound, nil)
		return
	}
	httpkit.OK(c, profile)
}

// ClinicSettings retrieves the clinic profile.
// GET /api/settings/clinic
func (h *Handler) ClinicSettings(c *gin.Context) {
	httpkit.OK(c, h.store.Clinic())
}

// UpdateClinicSettings updates the clinic profile.
// PUT /api/settings/clinic
func (h *Handler) UpdateClinicSettings(c *gin.Context) {
	var req identitytransport.UpdateClinicSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	httpkit.OK(c, h.store.UpdateClinic(req))
}

// ListAppointmentTypes retrieves the appointment type catalog.
// GET /api/settings/appointment-types
func (h *Handler) ListAppointmentTypes(c *gin.Context) {
	httpkit.OK(c, identitytransport.AppointmentTypesResponse{
		AppointmentTypes: h.store.AppointmentTypes(),
	})
}

// CreateAppointmentType adds an appointment type.
// POST /api/settings/appointment-types
func (h *Handler) CreateAppointmentType(c *gin.Context) {
	var req identitytransport.CreateAppointmentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	httpkit.JSON(c, http.StatusCreated, h.store.CreateAppointmentType(req))
}

// UpdateAppointmentType updates an appointment type.
// PUT /api/settings/appointment-types/:id
func (h *Handler) UpdateAppointmentType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req identitytransport.UpdateAppointmentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	updated, ok := h.store.UpdateAppointmentType(id, req)
	if !ok {
		httpkit.Error(c, http.StatusNotFound, msgNotFound, nil)
		return
	}
	httpkit.OK(c, updated)
}

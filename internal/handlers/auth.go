package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/careloop/careloop-backend/internal/requestdata"
  "github.com/careloop/careloop-backend/internal/services"
  "github.com/careloop/careloop-backend/internal/types"
)

type AuthHandler struct {
  authService     services.AuthService
  activityService services.ActivityService
}

func NewAuthHandler(authService services.AuthService, activityService services.ActivityService) *AuthHandler {
  return &AuthHandler{authService: authService, activityService: activityService}
}

func (ah *AuthHandler) Register(c *gin.Context) {
  var req struct {
    Email             string `json:"email"`
    Password          string `json:"password"`
    FullName          string `json:"full_name"`
    Age               *int   `json:"age"`
    Gender            string `json:"gender"`
    Phone             string `json:"phone"`
    MedicalConditions string `json:"medical_conditions"`
    Medications       string `json:"medications"`
    Allergies         string `json:"allergies"`
    EmergencyContact  string `json:"emergency_contact"`
    FitnessLevel      string `json:"fitness_level"`
    HealthGoals       string `json:"health_goals"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  user := types.User{
    Email:             req.Email,
    Password:          req.Password,
    FullName:          req.FullName,
    Age:               req.Age,
    Gender:            req.Gender,
    Phone:             req.Phone,
    MedicalConditions: req.MedicalConditions,
    Medications:       req.Medications,
    Allergies:         req.Allergies,
    EmergencyContact:  req.EmergencyContact,
    FitnessLevel:      req.FitnessLevel,
    HealthGoals:       req.HealthGoals,
  }
  if err := ah.authService.RegisterUser(c.Request.Context(), &user); err != nil {
    RespondServiceError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"success": true, "user_id": user.ID})
}

func (ah *AuthHandler) Login(c *gin.Context) {
  var req struct {
    Email    string `json:"email"`
    Password string `json:"password"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  accessToken, refreshToken, err := ah.authService.LoginUser(c.Request.Context(), req.Email, req.Password)
  if err != nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
    return
  }
  if ctx, sErr := ah.authService.SetContextFromToken(c.Request.Context(), accessToken); sErr == nil {
    if rd := requestdata.GetRequestData(ctx); rd != nil {
      ah.activityService.Track(ctx, rd.UserID, services.TrackInput{ActivityType: "login"})
    }
  }
  accessTTL := ah.authService.GetAccessTTL()
  expiresIn := int(accessTTL.Seconds())
  c.JSON(http.StatusOK, gin.H{"access_token": accessToken, "refresh_token": refreshToken, "expires_in": expiresIn})
}

func (ah *AuthHandler) Refresh(c *gin.Context) {
  accessToken, refreshToken, err := ah.authService.RefreshUser(c.Request.Context())
  if err != nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
    return
  }
  accessTTL := ah.authService.GetAccessTTL()
  expiresIn := int(accessTTL.Seconds())
  c.JSON(http.StatusOK, gin.H{"access_token": accessToken, "refresh_token": refreshToken, "expires_in": expiresIn})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
  ctx := c.Request.Context()
  rd := requestdata.GetRequestData(ctx)
  if err := ah.authService.LogoutUser(ctx); err != nil {
    RespondServiceError(c, err)
    return
  }
  if rd != nil {
    ah.activityService.Track(ctx, rd.UserID, services.TrackInput{ActivityType: "logout"})
  }
  c.JSON(http.StatusOK, gin.H{"success": true})
}

// controllers/intake.go - Public submission intake
package controllers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adityapachauri0/pan-sub000/services"
	"github.com/adityapachauri0/pan-sub000/utils"
)

type intakeRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// validate trims and bounds the visitor-supplied fields.
func (r *intakeRequest) validate() (bool, string) {
	fields := []struct {
		name   string
		value  *string
		maxLen int
	}{
		{"name", &r.Name, utils.MaxNameLength},
		{"email", &r.Email, utils.MaxEmailLength},
		{"subject", &r.Subject, utils.MaxSubjectLength},
		{"message", &r.Message, utils.MaxMessageLength},
	}

	for _, f := range fields {
		*f.value = utils.SanitizeInput(*f.value)
		if ok, msg := utils.ValidateIntakeField(f.name, *f.value, f.maxLen); !ok {
			return false, msg
		}
	}

	if !utils.ValidateEmail(r.Email) {
		return false, "email is not valid"
	}
	return true, ""
}

// CreateSubmission accepts a new contact form submission.
// POST /api/v1/submissions
func CreateSubmission(c *gin.Context) {
	var req intakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	if ok, msg := req.validate(); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
		return
	}

	input := services.TriageInput{
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		UserAgent: strings.TrimSpace(c.Request.UserAgent()),
	}

	if _, err := triage.Accept(c.Request.Context(), c.Request, input); err != nil {
		log.Printf("Failed to store submission: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to store submission"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Thank you for your message. We will get back to you soon.",
	})
}

package main

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Bodies are cut off here. Text fields come first in the form, so a cut-off
// file still leaves them intact.
const maxContactBody = 32 << 20

type site struct {
	content Content
	sender  Sender
	admin   *admin
	display time.Duration
	maxBody int64
}

type contactRequest struct {
	Name    string `form:"name" binding:"required,max=200"`
	Email   string `form:"email" binding:"required,email,max=254"`
	Message string `form:"message" binding:"required,max=5000"`
}

// contactView is what contact.html renders.
type contactView struct {
	Form          FormState
	FileError     string
	FieldErrors   map[string]string
	Notification  Notification
	DisplayMillis int64
}

func (s *site) viewOf(flow *ContactFlow) contactView {
	return contactView{
		Form:          flow.Form(),
		FileError:     flow.FileError(),
		Notification:  flow.Notification(),
		DisplayMillis: flow.DisplayWindow().Milliseconds(),
	}
}

func (s *site) newFlow() *ContactFlow {
	return NewContactFlow(s.sender, WithNotificationDisplay(s.display))
}

func loadTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))
}

func newRouter(s *site) *gin.Engine {
	if s.display == 0 {
		s.display = DefaultNotificationDisplay
	}
	if s.maxBody < MaxAttachmentSize+1<<20 {
		s.maxBody = maxContactBody
	}

	r := gin.Default()
	r.SetHTMLTemplate(loadTemplates())

	r.Static("/images", "./images")
	r.Static("/static", "./static")

	if s.admin != nil {
		r.Use(s.admin.visitorTrackingMiddleware())
		s.admin.setupRoutes(r)
	}

	// Home page route
	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{
			"content": s.content,
			"contact": s.viewOf(s.newFlow()),
		})
	})

	// HTMX Contact form endpoint - returns just the form HTML
	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact.html", s.viewOf(s.newFlow()))
	})

	// Attachment picked: checked on its own before the form is sent
	r.POST("/contact/attachment", func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBody)
		flow := s.newFlow()

		_, att, err := readContactForm(c)
		if err != nil {
			log.Printf("Error reading attachment: %v", err)
			c.HTML(http.StatusOK, "attachment.html", gin.H{"error": attachmentReadText})
			return
		}

		flow.SelectFile(att)
		c.HTML(http.StatusOK, "attachment.html", gin.H{
			"file":  flow.Form().File,
			"error": flow.FileError(),
		})
	})

	// Handle contact form submission with HTMX
	r.POST("/contact", func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBody)
		flow := s.newFlow()

		req, att, readErr := readContactForm(c)
		flow.SetName(req.Name)
		flow.SetEmail(req.Email)
		flow.SetMessage(req.Message)

		if readErr != nil {
			log.Printf("Error reading contact form: %v", readErr)
			view := s.viewOf(flow)
			if errors.Is(readErr, errUnreadableAttachment) {
				view.FileError = attachmentReadText
			} else {
				view.FieldErrors = map[string]string{"form": "Please check the form and try again."}
			}
			c.HTML(http.StatusOK, "contact.html", view)
			return
		}

		// An oversized file only drops the file; the rest is still sent.
		fileRejected := flow.SelectFile(att) != nil

		if err := binding.Validator.ValidateStruct(&req); err != nil {
			view := s.viewOf(flow)
			view.FieldErrors = fieldErrors(err)
			c.HTML(http.StatusOK, "contact.html", view)
			return
		}

		if fileRejected {
			s.admin.recordSubmission(c.ClientIP(), submissionRejectedFile, fileTooLargeText, true)
		}

		hasAttachment := flow.Form().File != nil
		// The visitor cannot abort a submission once it has started.
		outcome := flow.Submit(context.WithoutCancel(c.Request.Context()))

		result := submissionSent
		if !outcome.OK {
			result = submissionFailed
		}
		id := s.admin.recordSubmission(c.ClientIP(), result, outcome.Reason, hasAttachment)
		log.Printf("Contact submission %s: %s", id, result)

		c.HTML(http.StatusOK, "contact.html", s.viewOf(flow))
	})

	// Notification expired: swap it out for nothing
	r.GET("/contact/notification/clear", func(c *gin.Context) {
		c.String(http.StatusOK, "")
	})

	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			c.Redirect(http.StatusFound, "/")
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return r
}

func isBodyTooLarge(err error) bool {
	if err == nil {
		return false
	}
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

// fieldErrors turns binding failures into one message per form field.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["form"] = "Please check the form and try again."
		return out
	}

	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out[field] = "This field is required."
		case "email":
			out[field] = "Please enter a valid email address."
		case "max":
			out[field] = "This field is too long."
		default:
			out[field] = "This field is invalid."
		}
	}
	return out
}

// admin.go - privacy-conscious visitor and contact tracking plus the admin pages
package main

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Privacy-conscious visitor tracking struct
type VisitorMetric struct {
	ID        int       `json:"id"`
	HashedIP  string    `json:"hashed_ip"` // Hashed instead of raw IP for privacy
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// SubmissionRecord is what is kept about a contact submission. The message
// itself is never stored.
type SubmissionRecord struct {
	ID            string    `json:"id"`
	Outcome       string    `json:"outcome"`
	Reason        string    `json:"reason,omitempty"`
	HasAttachment bool      `json:"has_attachment"`
	HashedIP      string    `json:"hashed_ip"`
	Timestamp     time.Time `json:"timestamp"`
}

const (
	submissionSent         = "sent"
	submissionFailed       = "failed"
	submissionRejectedFile = "rejected_file"
)

type AdminStats struct {
	TotalVisitors     int64              `json:"total_visitors"`
	UniqueVisitors    int64              `json:"unique_visitors"`
	VisitorsToday     int64              `json:"visitors_today"`
	VisitorsThisWeek  int64              `json:"visitors_this_week"`
	TotalSubmissions  int64              `json:"total_submissions"`
	SentSubmissions   int64              `json:"sent_submissions"`
	FailedSubmissions int64              `json:"failed_submissions"`
	RejectedFiles     int64              `json:"rejected_files"`
	RecentVisitors    []VisitorMetric    `json:"recent_visitors"`
	RecentSubmissions []SubmissionRecord `json:"recent_submissions"`
}

type admin struct {
	db          *sql.DB
	username    string
	password    string
	token       string
	hashingSalt string
}

// newAdmin creates fresh session and hashing secrets on every start.
func newAdmin(db *sql.DB, username, password string) *admin {
	a := &admin{
		db:          db,
		username:    username,
		password:    password,
		token:       generateAdminToken(),
		hashingSalt: generateAdminToken(), // Use for IP hashing
	}

	log.Printf("Admin access available at: /admin/login")
	if gin.Mode() == gin.DebugMode {
		log.Printf("Admin token (dev only): %s", a.token)
	}
	log.Println("Privacy: Visitor tracking enabled with hashed IP addresses")
	return a
}

func generateAdminToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal("Failed to generate admin token:", err)
	}
	return hex.EncodeToString(bytes)
}

// Hash IP address for privacy compliance (consistent per IP)
func (a *admin) hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + a.hashingSalt))
	return hex.EncodeToString(hash.Sum(nil))[:16] // Truncate for storage efficiency
}

// Middleware to check admin authentication
func (a *admin) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("admin_token")
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Privacy-conscious visitor tracking middleware
func (a *admin) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only page views count, not fragments, assets or admin pages
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet ||
			c.GetHeader("HX-Request") == "true" ||
			strings.HasPrefix(path, "/static/") ||
			strings.HasPrefix(path, "/images/") ||
			strings.HasPrefix(path, "/admin/") ||
			strings.HasPrefix(path, "/favicon") ||
			strings.HasPrefix(path, "/privacy") {
			c.Next()
			return
		}

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		go a.trackVisitor(c.ClientIP(), c.GetHeader("User-Agent"), path)
		c.Next()
	}
}

func (a *admin) trackVisitor(ip, userAgent, path string) {
	_, err := a.db.Exec(`
		INSERT INTO visitors (hashed_ip, user_agent, path)
		VALUES (?, ?, ?)
	`, a.hashIP(ip), userAgent, path)
	if err != nil {
		log.Printf("Error recording visitor: %v", err)
	}
}

// recordSubmission stores the outcome of a contact submission and returns its id.
func (a *admin) recordSubmission(ip, outcome, reason string, hasAttachment bool) string {
	id := uuid.NewString()
	if a == nil {
		return id
	}

	_, err := a.db.Exec(`
		INSERT INTO contact_submissions (id, outcome, reason, has_attachment, hashed_ip)
		VALUES (?, ?, ?, ?, ?)
	`, id, outcome, reason, hasAttachment, a.hashIP(ip))
	if err != nil {
		log.Printf("Error recording contact submission %s: %v", id, err)
	}
	return id
}

// Cleanup old visitor and submission data for privacy compliance
func (a *admin) cleanupOldData() {
	for _, table := range []string{"visitors", "contact_submissions"} {
		result, err := a.db.Exec(`DELETE FROM ` + table + ` WHERE timestamp < datetime('now', '-12 months')`)
		if err != nil {
			log.Printf("Error cleaning up old %s data: %v", table, err)
			continue
		}

		rowsDeleted, _ := result.RowsAffected()
		if rowsDeleted > 0 {
			log.Printf("Privacy cleanup: Removed %d %s records older than 12 months", rowsDeleted, table)
		}
	}
}

func (a *admin) stats() (*AdminStats, error) {
	stats := &AdminStats{}

	counts := []struct {
		query string
		dest  *int64
	}{
		{"SELECT COUNT(*) FROM visitors", &stats.TotalVisitors},
		{"SELECT COUNT(DISTINCT hashed_ip) FROM visitors", &stats.UniqueVisitors},
		{"SELECT COUNT(*) FROM visitors WHERE DATE(timestamp) = DATE('now')", &stats.VisitorsToday},
		{"SELECT COUNT(*) FROM visitors WHERE timestamp >= datetime('now', '-7 days')", &stats.VisitorsThisWeek},
		{"SELECT COUNT(*) FROM contact_submissions", &stats.TotalSubmissions},
		{"SELECT COUNT(*) FROM contact_submissions WHERE outcome = 'sent'", &stats.SentSubmissions},
		{"SELECT COUNT(*) FROM contact_submissions WHERE outcome = 'failed'", &stats.FailedSubmissions},
		{"SELECT COUNT(*) FROM contact_submissions WHERE outcome = 'rejected_file'", &stats.RejectedFiles},
	}
	for _, q := range counts {
		if err := a.db.QueryRow(q.query).Scan(q.dest); err != nil {
			return nil, err
		}
	}

	var err error
	if stats.RecentVisitors, err = a.visitors(50); err != nil {
		return nil, err
	}
	if stats.RecentSubmissions, err = a.submissions(50); err != nil {
		return nil, err
	}
	return stats, nil
}

func (a *admin) visitors(limit int) ([]VisitorMetric, error) {
	rows, err := a.db.Query(`
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visitors []VisitorMetric
	for rows.Next() {
		var v VisitorMetric
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &v.Timestamp); err != nil {
			continue
		}
		visitors = append(visitors, v)
	}
	return visitors, rows.Err()
}

func (a *admin) submissions(limit int) ([]SubmissionRecord, error) {
	rows, err := a.db.Query(`
		SELECT id, outcome, COALESCE(reason, ''), has_attachment, hashed_ip, timestamp
		FROM contact_submissions
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []SubmissionRecord
	for rows.Next() {
		var r SubmissionRecord
		if err := rows.Scan(&r.ID, &r.Outcome, &r.Reason, &r.HasAttachment, &r.HashedIP, &r.Timestamp); err != nil {
			continue
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Setup all admin routes
func (a *admin) setupRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title": "Privacy Policy",
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
		if userOK && passOK {
			// Set secure cookie (24 hours)
			c.SetCookie("admin_token", a.token, 3600*24, "/admin", "", false, true)
			log.Printf("Admin login successful from %s", a.hashIP(c.ClientIP()))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}

		log.Printf("Failed admin login attempt from %s", a.hashIP(c.ClientIP()))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"error": "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie("admin_token", "", -1, "/admin", "", false, true)
		log.Printf("Admin logout from %s", a.hashIP(c.ClientIP()))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	adminGroup := r.Group("/admin")
	adminGroup.Use(a.authMiddleware())

	adminGroup.GET("/dashboard", func(c *gin.Context) {
		stats, err := a.stats()
		if err != nil {
			log.Printf("Error loading admin stats: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}

		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats": stats,
		})
	})

	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.stats()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.GET("/visitors", func(c *gin.Context) {
		visitors, err := a.visitors(200)
		if err != nil {
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	adminGroup.GET("/submissions", func(c *gin.Context) {
		records, err := a.submissions(200)
		if err != nil {
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load submissions",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-submissions.html", gin.H{
			"submissions": records,
		})
	})

	adminGroup.POST("/privacy/cleanup", func(c *gin.Context) {
		go a.cleanupOldData()
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup initiated"})
	})

	// Admin statistics export (for backups or analysis)
	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.stats()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		log.Printf("Admin stats exported by %s", a.hashIP(c.ClientIP()))
		c.JSON(http.StatusOK, stats)
	})
}

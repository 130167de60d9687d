package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"farmledger.dev/farmledger/internal/server"
	"farmledger.dev/farmledger/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDB() *gorm.DB {
	db, err := store.NewDB(&store.DBConfig{
		Logger: testLogger(),
		Driver: "sqlite",
		Path:   ":memory:",
	})
	Expect(err).NotTo(HaveOccurred())
	return db
}

func testConfig(db *gorm.DB) *server.ServerConfig {
	return &server.ServerConfig{
		Logger:        testLogger(),
		DB:            db,
		HTTPPort:      8080,
		SessionSecret: "test-session-secret",
	}
}

// noRedirectClient keeps redirect responses visible so the tests can
// assert on the Location header directly. The cookie jar carries the
// session across requests.
func noRedirectClient() *http.Client {
	jar, err := cookiejar.New(nil)
	Expect(err).NotTo(HaveOccurred())
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func postForm(client *http.Client, rawURL string, form url.Values) *http.Response {
	resp, err := client.Post(rawURL, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	Expect(err).NotTo(HaveOccurred())
	return resp
}

func signUp(client *http.Client, baseURL, email, password string) *http.Response {
	return postForm(client, baseURL+"/signup", url.Values{
		"email":    {email},
		"password": {password},
	})
}

func readBody(resp *http.Response) string {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())
	return string(body)
}

func decodeJSON(resp *http.Response, target any) {
	defer resp.Body.Close()
	Expect(json.NewDecoder(resp.Body).Decode(target)).To(Succeed())
}

var _ = Describe("NewServer", func() {
	It("rejects a nil config", func() {
		s, err := server.NewServer(nil)
		Expect(err).To(MatchError("server config cannot be nil"))
		Expect(s).To(BeNil())
	})

	It("rejects a nil logger", func() {
		cfg := testConfig(testDB())
		cfg.Logger = nil
		_, err := server.NewServer(cfg)
		Expect(err).To(MatchError("logger cannot be nil"))
	})

	It("rejects a nil database", func() {
		cfg := testConfig(nil)
		_, err := server.NewServer(cfg)
		Expect(err).To(MatchError("database cannot be nil"))
	})

	It("rejects a non-positive port", func() {
		cfg := testConfig(testDB())
		cfg.HTTPPort = 0
		_, err := server.NewServer(cfg)
		Expect(err).To(MatchError("HTTP port must be positive"))
	})

	It("rejects an empty session secret", func() {
		cfg := testConfig(testDB())
		cfg.SessionSecret = ""
		_, err := server.NewServer(cfg)
		Expect(err).To(MatchError("session secret cannot be empty"))
	})

	It("creates a server with a valid config", func() {
		s, err := server.NewServer(testConfig(testDB()))
		Expect(err).NotTo(HaveOccurred())
		Expect(s).NotTo(BeNil())
	})
})

var _ = Describe("Server", func() {
	var (
		ts     *httptest.Server
		client *http.Client
	)

	BeforeEach(func() {
		s, err := server.NewServer(testConfig(testDB()))
		Expect(err).NotTo(HaveOccurred())
		ts = httptest.NewServer(s.Handler())
		client = noRedirectClient()
	})

	AfterEach(func() {
		ts.Close()
	})

	// signIn registers an account and returns once the client's jar
	// holds a live session cookie.
	signIn := func() {
		resp := signUp(client, ts.URL, "tester@example.com", "hunter22")
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusSeeOther))
		Expect(resp.Header.Get("Location")).To(Equal("/dashboard"))
	}

	Describe("health check", func() {
		It("reports ok", func() {
			resp, err := client.Get(ts.URL + "/health")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(Equal("application/json"))
			Expect(readBody(resp)).To(MatchJSON(`{"status":"ok"}`))
		})
	})

	Describe("index", func() {
		It("sends visitors to the login page", func() {
			resp, err := client.Get(ts.URL + "/")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusSeeOther))
			Expect(resp.Header.Get("Location")).To(Equal("/login"))
		})

		It("sends signed-in users to the dashboard", func() {
			signIn()
			resp, err := client.Get(ts.URL + "/")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusSeeOther))
			Expect(resp.Header.Get("Location")).To(Equal("/dashboard"))
		})
	})

	Describe("route guard", func() {
		It("redirects page requests to the login page", func() {
			resp, err := client.Get(ts.URL + "/dashboard")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusSeeOther))
			Expect(resp.Header.Get("Location")).To(Equal("/login"))
		})

		It("answers API requests with a JSON 401", func() {
			resp, err := client.Get(ts.URL + "/api/v1/farmers")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
			var body map[string]string
			decodeJSON(resp, &body)
			Expect(body).To(HaveKey("error"))
		})
	})

	Describe("sign-up", func() {
		It("creates the account and signs it in immediately", func() {
			signIn()

			resp, err := client.Get(ts.URL + "/dashboard")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(readBody(resp)).To(ContainSubstring("Dashboard"))
		})

		It("rejects a duplicate email", func() {
			signIn()

			dup := noRedirectClient()
			resp := signUp(dup, ts.URL, "tester@example.com", "other-password")
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
			Expect(readBody(resp)).To(ContainSubstring("That email is already registered."))
		})

		It("rejects missing credentials", func() {
			resp := signUp(client, ts.URL, "", "")
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
			Expect(readBody(resp)).To(ContainSubstring("Email and password are required."))
		})
	})

	Describe("login", func() {
		BeforeEach(func() {
			resp := signUp(noRedirectClient(), ts.URL, "tester@example.com", "hunter22")
			resp.Body.Close()
		})

		It("signs in with valid credentials", func() {
			resp := postForm(client, ts.URL+"/login", url.Values{
				"email":    {"tester@example.com"},
				"password": {"hunter22"},
			})
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusSeeOther))
			Expect(resp.Header.Get("Location")).To(Equal("/dashboard"))
		})

		It("rejects a wrong password with an inline error", func() {
			resp := postForm(client, ts.URL+"/login", url.Values{
				"email":    {"tester@example.com"},
				"password": {"wrong"},
			})
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
			Expect(readBody(resp)).To(ContainSubstring("Invalid email or password."))
		})

		It("redirects a signed-in user away from the login page", func() {
			resp := postForm(client, ts.URL+"/login", url.Values{
				"email":    {"tester@example.com"},
				"password": {"hunter22"},
			})
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusSeeOther))

			again, err := client.Get(ts.URL + "/login")
			Expect(err).NotTo(HaveOccurred())
			defer again.Body.Close()
			Expect(again.StatusCode).To(Equal(http.StatusSeeOther))
			Expect(again.Header.Get("Location")).To(Equal("/dashboard"))
		})
	})

	Describe("logout", func() {
		It("ends the session", func() {
			signIn()

			resp := postForm(client, ts.URL+"/logout", url.Values{})
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusSeeOther))
			Expect(resp.Header.Get("Location")).To(Equal("/login"))

			after, err := client.Get(ts.URL + "/dashboard")
			Expect(err).NotTo(HaveOccurred())
			defer after.Body.Close()
			Expect(after.StatusCode).To(Equal(http.StatusSeeOther))
			Expect(after.Header.Get("Location")).To(Equal("/login"))
		})
	})

	Describe("entity pages", func() {
		It("renders a registered entity page", func() {
			signIn()
			resp, err := client.Get(ts.URL + "/farmers")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(readBody(resp)).To(ContainSubstring("Farmers"))
		})

		It("serves the not-found page for unmatched paths", func() {
			signIn()
			resp, err := client.Get(ts.URL + "/no-such-page")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		})
	})

	Describe("JSON API", func() {
		BeforeEach(func() {
			signIn()
		})

		apiPost := func(path string, payload string) *http.Response {
			resp, err := client.Post(ts.URL+path, "application/json", bytes.NewReader([]byte(payload)))
			Expect(err).NotTo(HaveOccurred())
			return resp
		}

		apiDo := func(method, path, payload string) *http.Response {
			req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(payload))
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Content-Type", "application/json")
			resp, err := client.Do(req)
			Expect(err).NotTo(HaveOccurred())
			return resp
		}

		createFarmer := func(first, last, email string) store.Farmer {
			payload := fmt.Sprintf(`{"first_name":%q,"last_name":%q,"email":%q}`, first, last, email)
			resp := apiPost("/api/v1/farmers", payload)
			Expect(resp.StatusCode).To(Equal(http.StatusCreated))
			var farmer store.Farmer
			decodeJSON(resp, &farmer)
			Expect(farmer.ID).NotTo(BeEmpty())
			return farmer
		}

		It("lists an empty collection", func() {
			resp, err := client.Get(ts.URL + "/api/v1/farmers")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			var body struct {
				Records []store.Farmer `json:"records"`
				Count   int            `json:"count"`
			}
			decodeJSON(resp, &body)
			Expect(body.Count).To(BeZero())
			Expect(body.Records).To(BeEmpty())
		})

		It("rejects an unknown entity kind", func() {
			resp, err := client.Get(ts.URL + "/api/v1/unicorns")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
			var body map[string]string
			decodeJSON(resp, &body)
			Expect(body["error"]).To(Equal("unknown entity kind"))
		})

		It("runs a record through create, filter, update, and delete", func() {
			created := createFarmer("Ana", "Reyes", "ana@reyes.farm")
			createFarmer("Bram", "Koster", "bram@koster.farm")

			By("listing both records")
			resp, err := client.Get(ts.URL + "/api/v1/farmers")
			Expect(err).NotTo(HaveOccurred())
			var listing struct {
				Records []store.Farmer `json:"records"`
				Count   int            `json:"count"`
			}
			decodeJSON(resp, &listing)
			Expect(listing.Count).To(Equal(2))

			By("filtering with ?q=")
			resp, err = client.Get(ts.URL + "/api/v1/farmers?q=reyes")
			Expect(err).NotTo(HaveOccurred())
			decodeJSON(resp, &listing)
			Expect(listing.Count).To(Equal(1))
			Expect(listing.Records[0].ID).To(Equal(created.ID))

			By("updating the record")
			update := apiDo(http.MethodPut, "/api/v1/farmers/"+created.ID, `{"phone":"555-0134"}`)
			Expect(update.StatusCode).To(Equal(http.StatusOK))
			var updated store.Farmer
			decodeJSON(update, &updated)
			Expect(updated.Phone).To(Equal("555-0134"))
			Expect(updated.FirstName).To(Equal("Ana"))

			By("deleting the record, twice")
			del := apiDo(http.MethodDelete, "/api/v1/farmers/"+created.ID, "")
			del.Body.Close()
			Expect(del.StatusCode).To(Equal(http.StatusNoContent))

			again := apiDo(http.MethodDelete, "/api/v1/farmers/"+created.ID, "")
			again.Body.Close()
			Expect(again.StatusCode).To(Equal(http.StatusNoContent))

			resp, err = client.Get(ts.URL + "/api/v1/farmers")
			Expect(err).NotTo(HaveOccurred())
			decodeJSON(resp, &listing)
			Expect(listing.Count).To(Equal(1))
		})

		It("rejects a record that fails validation", func() {
			resp := apiPost("/api/v1/farmers", `{"first_name":"Ana"}`)
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			var body map[string]string
			decodeJSON(resp, &body)
			Expect(body["error"]).NotTo(BeEmpty())
		})

		It("rejects malformed JSON", func() {
			resp := apiPost("/api/v1/farmers", `{"first_name":`)
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("reports a missing record on update", func() {
			resp := apiDo(http.MethodPut, "/api/v1/farmers/no-such-id", `{"phone":"555-0134"}`)
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
			var body map[string]string
			decodeJSON(resp, &body)
			Expect(body["error"]).To(Equal("record not found"))
		})
	})
})

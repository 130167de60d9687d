package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"farmledger.dev/farmledger/internal/store"
	"farmledger.dev/farmledger/pkg/generator"
)

// newBrowser returns a client that carries cookies and stops at
// redirects so the tests can assert on Location headers.
func newBrowser() *http.Client {
	jar, err := cookiejar.New(nil)
	Expect(err).NotTo(HaveOccurred())
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func signUpAs(client *http.Client, email string) {
	form := url.Values{"email": {email}, "password": {"e2e-password"}}
	resp, err := client.PostForm(baseURL+"/signup", form)
	Expect(err).NotTo(HaveOccurred())
	defer resp.Body.Close()
	Expect(resp.StatusCode).To(Equal(http.StatusSeeOther))
	Expect(resp.Header.Get("Location")).To(Equal("/dashboard"))
}

var _ = Describe("Application E2E", func() {
	Describe("Authentication flow", func() {
		It("should sign up, reach the dashboard, log out, and log back in", func() {
			browser := newBrowser()

			signUpAs(browser, "flow@example.com")

			resp, err := browser.Get(baseURL + "/dashboard")
			Expect(err).NotTo(HaveOccurred())
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(string(body)).To(ContainSubstring("Dashboard"))

			resp, err = browser.PostForm(baseURL+"/logout", url.Values{})
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusSeeOther))
			Expect(resp.Header.Get("Location")).To(Equal("/login"))

			resp, err = browser.Get(baseURL + "/dashboard")
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusSeeOther))
			Expect(resp.Header.Get("Location")).To(Equal("/login"))

			resp, err = browser.PostForm(baseURL+"/login", url.Values{
				"email":    {"flow@example.com"},
				"password": {"e2e-password"},
			})
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusSeeOther))
			Expect(resp.Header.Get("Location")).To(Equal("/dashboard"))
		})

		It("should keep anonymous visitors out of the API", func() {
			resp, err := http.Get(baseURL + "/api/v1/farmers")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("Record keeping over PostgreSQL", func() {
		var browser *http.Client

		BeforeEach(func() {
			browser = newBrowser()
			signUpAs(browser, fmt.Sprintf("keeper-%d@example.com", time.Now().UnixNano()))
		})

		It("should carry a farmer through create, update, and delete", func() {
			payload := `{"first_name":"Elena","last_name":"Vasquez","email":"elena@vasquez.farm","phone":"555-0100"}`
			resp, err := browser.Post(baseURL+"/api/v1/farmers", "application/json", strings.NewReader(payload))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusCreated))
			var farmer store.Farmer
			Expect(json.NewDecoder(resp.Body).Decode(&farmer)).To(Succeed())
			resp.Body.Close()
			Expect(farmer.ID).NotTo(BeEmpty())

			req, err := http.NewRequest(http.MethodPut, baseURL+"/api/v1/farmers/"+farmer.ID, strings.NewReader(`{"phone":"555-0199"}`))
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Content-Type", "application/json")
			resp, err = browser.Do(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			var updated store.Farmer
			Expect(json.NewDecoder(resp.Body).Decode(&updated)).To(Succeed())
			resp.Body.Close()
			Expect(updated.Phone).To(Equal("555-0199"))
			Expect(updated.FirstName).To(Equal("Elena"))

			req, err = http.NewRequest(http.MethodDelete, baseURL+"/api/v1/farmers/"+farmer.ID, nil)
			Expect(err).NotTo(HaveOccurred())
			resp, err = browser.Do(req)
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusNoContent))
		})

		It("should filter records with the q parameter", func() {
			suffix := fmt.Sprintf("%d", time.Now().UnixNano())
			for _, name := range []string{"Quentin", "Quincy"} {
				payload := fmt.Sprintf(`{"first_name":%q,"last_name":"Qualandi-%s","email":"%s-%s@example.farm"}`,
					name, suffix, strings.ToLower(name), suffix)
				resp, err := browser.Post(baseURL+"/api/v1/farmers", "application/json", strings.NewReader(payload))
				Expect(err).NotTo(HaveOccurred())
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusCreated))
			}

			resp, err := browser.Get(baseURL + "/api/v1/farmers?q=quincy")
			Expect(err).NotTo(HaveOccurred())
			var listing struct {
				Records []store.Farmer `json:"records"`
				Count   int            `json:"count"`
			}
			Expect(json.NewDecoder(resp.Body).Decode(&listing)).To(Succeed())
			resp.Body.Close()
			Expect(listing.Count).To(Equal(1))
			Expect(listing.Records[0].FirstName).To(Equal("Quincy"))
		})

		It("should render every registered entity page", func() {
			for _, path := range []string{
				"/farmers", "/farms", "/crops", "/crop-cycles", "/growth-records",
				"/inventory", "/suppliers", "/equipment", "/market-prices",
				"/weather", "/soil-analysis", "/tasks",
			} {
				resp, err := browser.Get(baseURL + path)
				Expect(err).NotTo(HaveOccurred())
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK), "page %s", path)
			}
		})
	})

	Describe("Seeding", func() {
		It("should populate every entity kind", func() {
			repos := store.NewRepositories(appDB, testLogger)
			seeder := generator.NewSeeder(repos, testLogger)
			Expect(seeder.Seed(context.Background())).To(Succeed())

			browser := newBrowser()
			signUpAs(browser, fmt.Sprintf("seeded-%d@example.com", time.Now().UnixNano()))

			for _, kind := range []string{"farmers", "farms", "crops", "crop-cycles", "tasks", "weather"} {
				resp, err := browser.Get(baseURL + "/api/v1/" + kind)
				Expect(err).NotTo(HaveOccurred())
				var listing struct {
					Count int `json:"count"`
				}
				Expect(json.NewDecoder(resp.Body).Decode(&listing)).To(Succeed())
				resp.Body.Close()
				Expect(listing.Count).To(BeNumerically(">", 0), "kind %s", kind)
			}
		})
	})

	Describe("Metrics", func() {
		It("should expose request counters after traffic", func() {
			browser := newBrowser()
			signUpAs(browser, fmt.Sprintf("metrics-%d@example.com", time.Now().UnixNano()))

			resp, err := http.Get(baseURL + "/metrics")
			Expect(err).NotTo(HaveOccurred())
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(string(body)).To(ContainSubstring("farmledger_http_requests_total"))
		})
	})
})

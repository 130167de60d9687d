package auth_test

import (
	"context"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"farmledger.dev/farmledger/internal/auth"
	"farmledger.dev/farmledger/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

var _ = Describe("Service", func() {
	var (
		db  *gorm.DB
		svc *auth.Service
		ctx context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = store.NewDB(&store.DBConfig{
			Logger: testLogger(),
			Driver: store.DriverSQLite,
			Path:   ":memory:",
		})
		Expect(err).NotTo(HaveOccurred())

		svc, err = auth.NewService(db, testLogger())
		Expect(err).NotTo(HaveOccurred())

		ctx = context.Background()
	})

	Describe("NewService", func() {
		It("should return error for nil database", func() {
			_, err := auth.NewService(nil, testLogger())
			Expect(err).To(HaveOccurred())
		})

		It("should return error for nil logger", func() {
			_, err := auth.NewService(db, nil)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("SignUp", func() {
		It("should register a user with a hashed password", func() {
			user, err := svc.SignUp(ctx, "anna@example.com", "s3cret-pass")
			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).NotTo(BeEmpty())
			Expect(user.Email).To(Equal("anna@example.com"))
			Expect(user.PasswordHash).NotTo(ContainSubstring("s3cret-pass"))
		})

		It("should normalize the email", func() {
			user, err := svc.SignUp(ctx, "  Anna@Example.COM ", "s3cret-pass")
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Email).To(Equal("anna@example.com"))
		})

		It("should reject a duplicate email", func() {
			_, err := svc.SignUp(ctx, "anna@example.com", "s3cret-pass")
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.SignUp(ctx, "ANNA@example.com", "other-pass")
			Expect(err).To(MatchError(store.ErrEmailTaken))
		})

		It("should reject empty credentials", func() {
			_, err := svc.SignUp(ctx, "", "")
			Expect(store.IsValidation(err)).To(BeTrue())
		})
	})

	Describe("SignIn", func() {
		BeforeEach(func() {
			_, err := svc.SignUp(ctx, "anna@example.com", "s3cret-pass")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return the user for valid credentials", func() {
			user, err := svc.SignIn(ctx, "anna@example.com", "s3cret-pass")
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Email).To(Equal("anna@example.com"))
		})

		It("should reject a wrong password", func() {
			_, err := svc.SignIn(ctx, "anna@example.com", "wrong")
			Expect(err).To(MatchError(store.ErrInvalidCredentials))
		})

		It("should reject an unknown email with the same error", func() {
			_, err := svc.SignIn(ctx, "nobody@example.com", "s3cret-pass")
			Expect(err).To(MatchError(store.ErrInvalidCredentials))
		})
	})
})

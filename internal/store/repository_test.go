package store_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"farmledger.dev/farmledger/internal/store"
)

var _ = Describe("Repository", func() {
	var (
		db    *gorm.DB
		repos *store.Repositories
		ctx   context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = store.NewDB(&store.DBConfig{
			Logger: testLogger(),
			Driver: store.DriverSQLite,
			Path:   ":memory:",
		})
		Expect(err).NotTo(HaveOccurred())

		repos = store.NewRepositories(db, testLogger())
		ctx = context.Background()
	})

	newFarmer := func(first, last, email string) *store.Farmer {
		return &store.Farmer{
			FirstName: first,
			LastName:  last,
			Email:     email,
		}
	}

	Describe("Create", func() {
		It("should assign a uuid and matching timestamps", func() {
			farmer := newFarmer("John", "Farmer", "john@example.com")
			Expect(repos.Farmers.Create(ctx, farmer)).To(Succeed())

			Expect(farmer.ID).NotTo(BeEmpty())

			stored, err := repos.Farmers.Get(ctx, farmer.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.CreatedAt).To(BeTemporally("~", stored.UpdatedAt, time.Second))
		})

		It("should keep a caller-provided id", func() {
			farmer := newFarmer("John", "Farmer", "john@example.com")
			farmer.ID = "farmer-fixed-id"
			Expect(repos.Farmers.Create(ctx, farmer)).To(Succeed())

			stored, err := repos.Farmers.Get(ctx, "farmer-fixed-id")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.FirstName).To(Equal("John"))
		})

		It("should reject a draft missing required fields and persist nothing", func() {
			err := repos.Farmers.Create(ctx, &store.Farmer{FirstName: "John"})
			Expect(store.IsValidation(err)).To(BeTrue())

			n, err := repos.Farmers.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(BeZero())
		})

		It("should reject an undeclared enum variant", func() {
			err := repos.Tasks.Create(ctx, &store.TaskSchedule{
				FarmID:        "farm-1",
				TaskName:      "Sow north field",
				TaskType:      "daydreaming",
				ScheduledDate: time.Now(),
				Status:        store.TaskPending,
			})
			Expect(store.IsValidation(err)).To(BeTrue())
		})

		It("should surface the new record in the next list", func() {
			farmer := newFarmer("John", "Farmer", "john@example.com")
			Expect(repos.Farmers.Create(ctx, farmer)).To(Succeed())

			list, err := repos.Farmers.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].ID).To(Equal(farmer.ID))
		})
	})

	Describe("List", func() {
		It("should return records in creation order", func() {
			for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
				Expect(repos.Farmers.Create(ctx, newFarmer("F", "L", email))).To(Succeed())
				time.Sleep(5 * time.Millisecond)
			}

			list, err := repos.Farmers.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(3))
			Expect(list[0].Email).To(Equal("a@example.com"))
			Expect(list[2].Email).To(Equal("c@example.com"))
		})

		It("should return an empty slice for an empty table", func() {
			list, err := repos.Farmers.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(BeEmpty())
		})
	})

	Describe("Get", func() {
		It("should return ErrNotFound for a missing id", func() {
			_, err := repos.Farmers.Get(ctx, "no-such-id")
			Expect(err).To(MatchError(store.ErrNotFound))
		})
	})

	Describe("Update", func() {
		It("should merge the patch and preserve untouched fields", func() {
			farmer := newFarmer("John", "Farmer", "john@example.com")
			farmer.Phone = "555-0100"
			Expect(repos.Farmers.Create(ctx, farmer)).To(Succeed())

			updated, err := repos.Farmers.Update(ctx, farmer.ID, func(f *store.Farmer) error {
				f.Email = "john.farmer@example.com"
				return nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Email).To(Equal("john.farmer@example.com"))
			Expect(updated.FirstName).To(Equal("John"))
			Expect(updated.Phone).To(Equal("555-0100"))
		})

		It("should advance updated_at and preserve created_at", func() {
			farmer := newFarmer("John", "Farmer", "john@example.com")
			Expect(repos.Farmers.Create(ctx, farmer)).To(Succeed())

			created := farmer.CreatedAt
			time.Sleep(50 * time.Millisecond)

			updated, err := repos.Farmers.Update(ctx, farmer.ID, func(f *store.Farmer) error {
				f.Phone = "555-0199"
				return nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.CreatedAt).To(BeTemporally("~", created, time.Millisecond))
			Expect(updated.UpdatedAt).To(BeTemporally(">", updated.CreatedAt))
		})

		It("should keep the stored id even when the patch rewrites it", func() {
			farmer := newFarmer("John", "Farmer", "john@example.com")
			Expect(repos.Farmers.Create(ctx, farmer)).To(Succeed())

			updated, err := repos.Farmers.Update(ctx, farmer.ID, func(f *store.Farmer) error {
				f.ID = "hijacked"
				return nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.ID).To(Equal(farmer.ID))

			n, err := repos.Farmers.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(BeEquivalentTo(1))
		})

		It("should return ErrNotFound for a missing id and leave the list unchanged", func() {
			farmer := newFarmer("John", "Farmer", "john@example.com")
			Expect(repos.Farmers.Create(ctx, farmer)).To(Succeed())

			_, err := repos.Farmers.Update(ctx, "no-such-id", func(f *store.Farmer) error {
				f.FirstName = "Ghost"
				return nil
			})
			Expect(err).To(MatchError(store.ErrNotFound))

			list, err := repos.Farmers.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].FirstName).To(Equal("John"))
		})

		It("should persist nothing when the merged record is invalid", func() {
			farmer := newFarmer("John", "Farmer", "john@example.com")
			Expect(repos.Farmers.Create(ctx, farmer)).To(Succeed())

			_, err := repos.Farmers.Update(ctx, farmer.ID, func(f *store.Farmer) error {
				f.Email = ""
				return nil
			})
			Expect(store.IsValidation(err)).To(BeTrue())

			stored, err := repos.Farmers.Get(ctx, farmer.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Email).To(Equal("john@example.com"))
		})
	})

	Describe("Delete", func() {
		It("should remove the record from the next list", func() {
			farmer := newFarmer("John", "Farmer", "john@example.com")
			Expect(repos.Farmers.Create(ctx, farmer)).To(Succeed())

			Expect(repos.Farmers.Delete(ctx, farmer.ID)).To(Succeed())

			list, err := repos.Farmers.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(BeEmpty())
		})

		It("should be idempotent", func() {
			farmer := newFarmer("John", "Farmer", "john@example.com")
			Expect(repos.Farmers.Create(ctx, farmer)).To(Succeed())

			Expect(repos.Farmers.Delete(ctx, farmer.ID)).To(Succeed())
			Expect(repos.Farmers.Delete(ctx, farmer.ID)).To(Succeed())
			Expect(repos.Farmers.Delete(ctx, "never-existed")).To(Succeed())
		})
	})

	Describe("Kind", func() {
		It("should report the entity kind", func() {
			Expect(repos.Farmers.Kind()).To(Equal("farmers"))
			Expect(repos.GrowthRecords.Kind()).To(Equal("growth-records"))
			Expect(repos.Tasks.Kind()).To(Equal("tasks"))
		})
	})
})

package mq_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"farmledger.dev/farmledger/pkg/mq"
)

var _ = Describe("MQ Client", func() {
	var logger *slog.Logger

	BeforeEach(func() {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelError,
		}))
	})

	// newDisconnected builds a client against an unreachable broker and
	// lets the first dial attempt fail before returning.
	newDisconnected := func() *mq.Client {
		client := mq.New("weather-readings", "amqp://invalid:5672", logger)
		time.Sleep(100 * time.Millisecond)
		return client
	}

	Describe("New", func() {
		It("returns a usable client before any connection exists", func() {
			client := mq.New("weather-readings", "amqp://localhost:5672", logger)
			Expect(client).NotTo(BeNil())
		})
	})

	Describe("Push without a broker", func() {
		It("keeps retrying with backoff until the context expires", func() {
			client := newDisconnected()
			defer func() { _ = client.Close() }()

			ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			start := time.Now()
			err := client.Push(ctx, []byte(`{"station_id":"ws-001"}`))
			elapsed := time.Since(start)

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(SatisfyAny(
				ContainSubstring("context deadline exceeded"),
				ContainSubstring("context canceled"),
			))
			Expect(elapsed).To(BeNumerically(">=", 100*time.Millisecond))
		})

		It("gives up once the retry budget is spent", func() {
			client := newDisconnected()
			defer func() { _ = client.Close() }()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			start := time.Now()
			err := client.Push(ctx, []byte(`{"station_id":"ws-001"}`))
			elapsed := time.Since(start)

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("maximum retry attempts exceeded"))

			// Five doubling backoffs from 100ms add up to about 3.1s.
			Expect(elapsed).To(BeNumerically(">=", 3*time.Second))
			Expect(elapsed).To(BeNumerically("<", 10*time.Second))
		})

		It("rejects UnsafePush immediately", func() {
			client := newDisconnected()
			defer func() { _ = client.Close() }()

			err := client.UnsafePush(context.Background(), []byte("{}"))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("not connected"))
		})
	})

	Describe("Consume without a broker", func() {
		It("returns a not-connected error", func() {
			client := newDisconnected()
			defer func() { _ = client.Close() }()

			_, err := client.Consume()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("not connected"))
		})
	})

	Describe("Close", func() {
		It("reports already closed when the client never connected", func() {
			client := newDisconnected()

			err := client.Close()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("already closed"))
		})

		It("reports already closed on a second call", func() {
			client := newDisconnected()

			_ = client.Close()
			err := client.Close()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("already closed"))
		})
	})

	Describe("concurrent use", func() {
		It("survives simultaneous publish attempts", func() {
			client := newDisconnected()
			defer func() { _ = client.Close() }()

			done := make(chan bool, 3)
			for i := 0; i < 3; i++ {
				go func() {
					_ = client.UnsafePush(context.Background(), []byte("{}"))
					done <- true
				}()
			}

			for i := 0; i < 3; i++ {
				Eventually(done).Should(Receive())
			}
		})

		It("survives simultaneous close attempts", func() {
			client := newDisconnected()

			done := make(chan bool, 3)
			for i := 0; i < 3; i++ {
				go func() {
					_ = client.Close()
					done <- true
				}()
			}

			for i := 0; i < 3; i++ {
				Eventually(done).Should(Receive())
			}
		})
	})
})

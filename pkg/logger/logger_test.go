package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"farmledger.dev/farmledger/pkg/logger"
)

var _ = Describe("Logger", func() {
	Describe("New", func() {
		It("builds a logger from the default config", func() {
			Expect(logger.New(logger.DefaultConfig())).NotTo(BeNil())
		})

		It("tolerates a nil config", func() {
			Expect(logger.New(nil)).NotTo(BeNil())
		})

		It("accepts a config with source locations enabled", func() {
			log := logger.New(&logger.Config{
				Level:     slog.LevelInfo,
				Output:    &bytes.Buffer{},
				AddSource: true,
			})
			Expect(log).NotTo(BeNil())
		})
	})

	Describe("NewDefault", func() {
		It("builds a ready-to-use logger", func() {
			Expect(logger.NewDefault()).NotTo(BeNil())
		})
	})

	Describe("DefaultConfig", func() {
		It("defaults to info level without source locations", func() {
			cfg := logger.DefaultConfig()
			Expect(cfg).NotTo(BeNil())
			Expect(cfg.Level).To(Equal(slog.LevelInfo))
			Expect(cfg.AddSource).To(BeFalse())
		})
	})

	Describe("ParseLevel", func() {
		DescribeTable("maps level names to slog levels",
			func(input string, expected slog.Level) {
				Expect(logger.ParseLevel(input)).To(Equal(expected))
			},
			Entry("debug", "debug", slog.LevelDebug),
			Entry("info", "info", slog.LevelInfo),
			Entry("warn", "warn", slog.LevelWarn),
			Entry("warning is an alias for warn", "warning", slog.LevelWarn),
			Entry("error", "error", slog.LevelError),
			Entry("unknown names fall back to info", "verbose", slog.LevelInfo),
			Entry("the empty string falls back to info", "", slog.LevelInfo),
		)
	})

	Describe("output format", func() {
		var (
			buf *bytes.Buffer
			log *slog.Logger
		)

		BeforeEach(func() {
			buf = &bytes.Buffer{}
			log = logger.New(&logger.Config{Level: slog.LevelInfo, Output: buf})
		})

		It("writes one JSON object per record", func() {
			log.Info("harvest recorded")

			var entry map[string]interface{}
			Expect(json.Unmarshal(buf.Bytes(), &entry)).To(Succeed())
			Expect(entry).To(HaveKey("time"))
			Expect(entry).To(HaveKey("level"))
			Expect(entry).To(HaveKeyWithValue("msg", "harvest recorded"))
		})

		It("carries structured attributes through to the JSON", func() {
			log.Info("records listed", "entity", "farms", "count", 42)

			var entry map[string]interface{}
			Expect(json.Unmarshal(buf.Bytes(), &entry)).To(Succeed())
			Expect(entry).To(HaveKeyWithValue("entity", "farms"))
			Expect(entry).To(HaveKeyWithValue("count", float64(42)))
		})
	})

	Describe("level filtering", func() {
		logAt := func(cfgLevel slog.Level, emit func(*slog.Logger)) bool {
			buf := &bytes.Buffer{}
			emit(logger.New(&logger.Config{Level: cfgLevel, Output: buf}))
			return len(strings.TrimSpace(buf.String())) > 0
		}

		DescribeTable("suppresses records below the configured level",
			func(cfgLevel slog.Level, emit func(*slog.Logger), wantOutput bool) {
				Expect(logAt(cfgLevel, emit)).To(Equal(wantOutput))
			},
			Entry("debug passes at debug level",
				slog.LevelDebug, func(l *slog.Logger) { l.Debug("d") }, true),
			Entry("debug is dropped at info level",
				slog.LevelInfo, func(l *slog.Logger) { l.Debug("d") }, false),
			Entry("info passes at info level",
				slog.LevelInfo, func(l *slog.Logger) { l.Info("i") }, true),
			Entry("warn passes at info level",
				slog.LevelInfo, func(l *slog.Logger) { l.Warn("w") }, true),
			Entry("info is dropped at error level",
				slog.LevelError, func(l *slog.Logger) { l.Info("i") }, false),
		)
	})
})

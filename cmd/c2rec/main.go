package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/glizzus/c2rec/internal/codec2"
	"github.com/glizzus/c2rec/internal/codec2/native"
	"github.com/glizzus/c2rec/internal/config"
	"github.com/glizzus/c2rec/internal/datalayer"
	"github.com/glizzus/c2rec/internal/generator"
	"github.com/glizzus/c2rec/internal/logger"
	"github.com/glizzus/c2rec/internal/recording"
	"github.com/glizzus/c2rec/internal/repository"
	"github.com/urfave/cli/v2"
)

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func createOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

func inOutArgs(c *cli.Context) (string, string, error) {
	if c.NArg() != 2 {
		return "", "", cli.Exit("expected INPUT and OUTPUT arguments (use - for stdin/stdout)", 1)
	}
	return c.Args().Get(0), c.Args().Get(1), nil
}

// codecSettings resolves the mode and side-info flag for encoding commands.
// Flags win over the C2_MODE and C2_SIDE_INFO environment, which is only read
// when a flag is missing.
func codecSettings(c *cli.Context) (codec2.Mode, bool, error) {
	var cfg config.CodecConfig
	if !c.IsSet("mode") || !c.IsSet("side-info") {
		loaded, err := config.NewCodecConfigFromEnv()
		if err != nil {
			return 0, false, cli.Exit("Failed to load codec config: "+err.Error(), 1)
		}
		cfg = *loaded
	}

	mode := cfg.Mode
	if c.IsSet("mode") {
		parsed, err := codec2.ParseMode(c.String("mode"))
		if err != nil {
			return 0, false, cli.Exit(err.Error(), 1)
		}
		mode = parsed
	}
	sideInfo := cfg.SideInfo
	if c.IsSet("side-info") {
		sideInfo = c.Bool("side-info")
	}
	return mode, sideInfo, nil
}

func supportedModes() []string {
	var names []string
	for _, m := range codec2.Modes() {
		if native.Supported(m) {
			names = append(names, m.String())
		}
	}
	return names
}

// newNativeCodec opens a libcodec2 codec, explaining geometry mismatches.
func newNativeCodec(mode codec2.Mode) (*codec2.Codec, error) {
	codec, err := codec2.New(native.New(), mode)
	var geomErr *native.GeometryError
	if errors.As(err, &geomErr) {
		return nil, cli.Exit(fmt.Sprintf("%v (libcodec2 supports modes %s here; see c2rec modes)",
			err, strings.Join(supportedModes(), ", ")), 1)
	}
	if err != nil {
		return nil, cli.Exit(err.Error(), 1)
	}
	return codec, nil
}

func newRecordingService(ctx context.Context, log *slog.Logger) (*recording.Service, func(), error) {
	pool, err := datalayer.NewPostgresPoolFromEnv(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := datalayer.MigratePostgres(pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to migrate postgres: %w", err)
	}

	blobs, err := datalayer.NewMinioStorageFromEnv()
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to create minio storage: %w", err)
	}
	if err := blobs.EnsureBucket(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to ensure minio bucket: %w", err)
	}

	svc := recording.NewService(
		native.New(),
		blobs,
		repository.NewPostgresRecordingRepository(pool),
		generator.UUIDV7Generator{},
		log,
	)
	return svc, pool.Close, nil
}

func run() error {
	if err := config.LoadEnv(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	logConfig, err := config.NewLogConfigFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load log config: %w", err)
	}
	log, closeLog, err := logger.New(*logConfig)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer closeLog()
	slog.SetDefault(log)
	codec2.SetLogger(log)

	if !native.Available() {
		log.Warn("built without libcodec2; encode and decode will fail", slog.String("hint", "go build -tags codec2"))
	}

	return newApp(log).RunContext(context.Background(), os.Args)
}

func newApp(log *slog.Logger) *cli.App {
	modeFlag := &cli.StringFlag{
		Name:        "mode",
		Aliases:     []string{"m"},
		Usage:       "Codec2 mode (3200, 2400, 1600, 1400, 1300, 1200, 700C)",
		DefaultText: "$C2_MODE or 3200",
	}
	sideInfoFlag := &cli.BoolFlag{
		Name:        "side-info",
		Usage:       "set the side-info flag in the stream header",
		DefaultText: "$C2_SIDE_INFO or false",
	}

	return &cli.App{
		Name:        "c2rec",
		Usage:       "Encode, decode and store Codec2 speech recordings",
		Description: "PCM input and output is raw signed 16-bit mono at 8000 Hz in native byte order.",
		Commands: []*cli.Command{
			{
				Name:  "modes",
				Usage: "List supported Codec2 modes",
				Action: func(c *cli.Context) error {
					for _, m := range codec2.Modes() {
						g := m.Geometry()
						fmt.Fprintf(c.App.Writer, "%-5s id=%d samples/frame=%d bytes/frame=%d bitrate=%d native=%t\n",
							m, m.ID(), g.SamplesPerFrame, g.BytesPerFrame, g.BitRate(), native.Supported(m))
					}
					return nil
				},
			},
			{
				Name:      "info",
				Usage:     "Print the header of a .c2 stream",
				ArgsUsage: "FILE",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("expected a FILE argument", 1)
					}
					in, err := openInput(c.Args().First())
					if err != nil {
						return cli.Exit("Failed to open input: "+err.Error(), 1)
					}
					defer in.Close()

					r, err := codec2.NewStreamReader(in)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					h := r.Header()
					var frames int64
					for {
						if _, err := r.ReadFrame(); err != nil {
							if err != io.EOF {
								log.Warn("stream ends mid-frame", slog.Any("error", err))
							}
							break
						}
						frames++
					}
					g := h.Mode.Geometry()
					fmt.Fprintf(c.App.Writer, "version=%d.%d mode=%s side-info=%t frames=%d duration=%s\n",
						h.VersionMajor, h.VersionMinor, h.Mode, h.SideInfo(), frames, g.FrameDuration()*time.Duration(frames))
					return nil
				},
			},
			{
				Name:      "encode",
				Usage:     "Encode raw PCM into a .c2 stream",
				ArgsUsage: "INPUT OUTPUT",
				Flags:     []cli.Flag{modeFlag, sideInfoFlag},
				Action: func(c *cli.Context) error {
					inPath, outPath, err := inOutArgs(c)
					if err != nil {
						return err
					}
					mode, sideInfo, err := codecSettings(c)
					if err != nil {
						return err
					}

					codec, err := newNativeCodec(mode)
					if err != nil {
						return err
					}
					defer codec.Close()

					in, err := openInput(inPath)
					if err != nil {
						return cli.Exit("Failed to open input: "+err.Error(), 1)
					}
					defer in.Close()
					out, err := createOutput(outPath)
					if err != nil {
						return cli.Exit("Failed to create output: "+err.Error(), 1)
					}
					defer out.Close()

					frames, err := codec2.EncodeStream(c.Context, codec, out, in, sideInfo)
					if err != nil {
						return cli.Exit("Failed to encode: "+err.Error(), 1)
					}
					log.Info("encoded", slog.String("mode", mode.String()), slog.Int64("frames", frames))
					return nil
				},
			},
			{
				Name:      "decode",
				Usage:     "Decode a .c2 stream into raw PCM",
				ArgsUsage: "INPUT OUTPUT",
				Action: func(c *cli.Context) error {
					inPath, outPath, err := inOutArgs(c)
					if err != nil {
						return err
					}
					in, err := openInput(inPath)
					if err != nil {
						return cli.Exit("Failed to open input: "+err.Error(), 1)
					}
					defer in.Close()

					r, err := codec2.NewStreamReader(in)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					codec, err := newNativeCodec(r.Header().Mode)
					if err != nil {
						return err
					}
					defer codec.Close()

					out, err := createOutput(outPath)
					if err != nil {
						return cli.Exit("Failed to create output: "+err.Error(), 1)
					}
					defer out.Close()

					frames, err := codec2.DecodeStream(c.Context, codec, out, r)
					if err != nil {
						return cli.Exit("Failed to decode: "+err.Error(), 1)
					}
					log.Info("decoded", slog.String("mode", r.Header().Mode.String()), slog.Int64("frames", frames))
					return nil
				},
			},
			{
				Name:      "store",
				Usage:     "Encode raw PCM and upload it as a recording",
				ArgsUsage: "INPUT",
				Flags: []cli.Flag{
					modeFlag,
					sideInfoFlag,
					&cli.StringFlag{Name: "name", Usage: "recording name"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("expected an INPUT argument", 1)
					}
					mode, sideInfo, err := codecSettings(c)
					if err != nil {
						return err
					}
					svc, closeSvc, err := newRecordingService(c.Context, log)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					defer closeSvc()

					in, err := openInput(c.Args().First())
					if err != nil {
						return cli.Exit("Failed to open input: "+err.Error(), 1)
					}
					defer in.Close()

					rec, err := svc.Store(c.Context, in, recording.StoreOptions{
						Name:     c.String("name"),
						Mode:     mode,
						SideInfo: sideInfo,
					})
					if err != nil {
						return cli.Exit("Failed to store recording: "+err.Error(), 1)
					}
					fmt.Fprintln(c.App.Writer, rec.ID)
					return nil
				},
			},
			{
				Name:      "fetch",
				Usage:     "Download a recording and decode it into raw PCM",
				ArgsUsage: "ID OUTPUT",
				Action: func(c *cli.Context) error {
					id, outPath, err := inOutArgs(c)
					if err != nil {
						return err
					}
					svc, closeSvc, err := newRecordingService(c.Context, log)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					defer closeSvc()

					out, err := createOutput(outPath)
					if err != nil {
						return cli.Exit("Failed to create output: "+err.Error(), 1)
					}
					defer out.Close()

					if _, err := svc.Fetch(c.Context, id, out); err != nil {
						return cli.Exit("Failed to fetch recording: "+err.Error(), 1)
					}
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "List the most recent recordings",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "maximum number of recordings"},
				},
				Action: func(c *cli.Context) error {
					limit := c.Int("limit")
					if limit < 0 {
						return cli.Exit(fmt.Sprintf("--limit must not be negative, got %d", limit), 1)
					}
					svc, closeSvc, err := newRecordingService(c.Context, log)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					defer closeSvc()

					recs, err := svc.List(c.Context, limit)
					if err != nil {
						return cli.Exit("Failed to list recordings: "+err.Error(), 1)
					}
					if len(recs) == 0 {
						log.Info("No recordings found.")
						return nil
					}
					for _, rec := range recs {
						fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\t%s\t%s\n",
							rec.ID, rec.CreatedAt.Format("2006-01-02 15:04:05"), rec.Mode, rec.Duration(), rec.Name)
					}
					return nil
				},
			},
		},
	}
}

func main() {
	if err := run(); err != nil {
		slog.Error("c2rec failed", slog.Any("error", err))
		os.Exit(1)
	}
}

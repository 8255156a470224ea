package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/nwpdiag/dataimpact/internal/analyze"
	"github.com/nwpdiag/dataimpact/internal/config"
	"github.com/nwpdiag/dataimpact/internal/diag"
	"github.com/nwpdiag/dataimpact/internal/fetch"
	"github.com/nwpdiag/dataimpact/internal/impact"
	"github.com/nwpdiag/dataimpact/internal/persist"
	"github.com/nwpdiag/dataimpact/internal/post"
	"github.com/nwpdiag/dataimpact/internal/store"
)

var cli struct {
	Config        string `help:"Sensor/domain configuration YAML." type:"path" env:"DATAIMPACT_CONFIG"`
	MetricsListen string `help:"Expose Prometheus metrics on this address while running." env:"DATAIMPACT_METRICS_LISTEN"`

	Conv       ConvCmd       `cmd:"" help:"Jo-diff statistics for conventional scalar observations."`
	ConvUV     ConvUVCmd     `cmd:"" name:"conv-uv" help:"Jo-diff statistics for conventional wind-vector observations."`
	Sate       SateCmd       `cmd:"" help:"Jo-diff statistics for satellite radiance observations."`
	Post       PostCmd       `cmd:"" help:"Cross-cycle FSOI-proxy bar figures from saved summaries."`
	Detail     DetailCmd     `cmd:"" help:"Spatial maps from saved detail records."`
	Fetch      FetchCmd      `cmd:"" help:"Download a cycle's diagnostic files over FTP."`
	ShowDetail ShowDetailCmd `cmd:"" name:"show-detail" help:"Print the first rows of a detail record."`
	Info       InfoCmd       `cmd:"" help:"List variables and attributes of a diagnostic file."`
}

// analyzeArgs is the shared surface of the three analysis commands.
type analyzeArgs struct {
	YYYY     string `arg:"" name:"yyyy" help:"Cycle year."`
	MM       string `arg:"" name:"mm" help:"Cycle month."`
	DD       string `arg:"" name:"dd" help:"Cycle day."`
	HH       string `arg:"" name:"hh" help:"Cycle hour."`
	DataPath string `arg:"" help:"Root of the diagnostic file tree."`

	Domain     string `help:"Spatial filter: true, false, box:latMin,latMax,lonMin,lonMax, or a named preset." default:"true"`
	SaveDetail bool   `help:"Also write per-observation detail records."`
	SummaryDir string `help:"Summary output directory." default:"./impact"`
	DetailDir  string `help:"Detail output directory." default:"./impact_detail"`
	FigDir     string `help:"Histogram output directory." default:"./figures"`
	DB         string `help:"Optional SQLite database mirroring summary records." type:"path"`
}

func (a *analyzeArgs) run(fam impact.Family, cfg *config.Config, saveChannelInfo bool) error {
	domain, err := impact.ParseDomain(a.Domain, cfg.Domains)
	if err != nil {
		return err
	}
	log.Printf("domain filter: %s", a.Domain)

	r := &analyze.Run{
		Family:          fam,
		YYYY:            a.YYYY,
		MM:              a.MM,
		DD:              a.DD,
		HH:              a.HH,
		DataPath:        a.DataPath,
		Domain:          domain,
		SaveDetail:      a.SaveDetail,
		SaveChannelInfo: saveChannelInfo,
		SummaryDir:      a.SummaryDir,
		DetailDir:       a.DetailDir,
		FigDir:          a.FigDir,
	}
	if a.DB != "" {
		st, err := store.Open(a.DB)
		if err != nil {
			return err
		}
		defer st.Close()
		r.Store = st
	}
	return r.Execute()
}

type ConvCmd struct {
	analyzeArgs
}

func (c *ConvCmd) Run(cfg *config.Config) error {
	return c.run(impact.ConventionalFamily(cfg.ConvSensors), cfg, false)
}

type ConvUVCmd struct {
	analyzeArgs
}

func (c *ConvUVCmd) Run(cfg *config.Config) error {
	return c.run(impact.WindFamily(cfg.WindSensors), cfg, false)
}

type SateCmd struct {
	analyzeArgs
	SaveChannelInfo bool `help:"Also write per-channel metadata side files."`
}

func (c *SateCmd) Run(cfg *config.Config) error {
	return c.run(impact.RadianceFamily(cfg.SateSensors), cfg, c.SaveChannelInfo)
}

type PostCmd struct {
	Start string `help:"First cycle (YYYYMMDDHH)." required:""`
	End   string `help:"Last cycle (YYYYMMDDHH)." required:""`

	Case       string `help:"Figure set name." enum:"full-domain,sub-domain" default:"full-domain"`
	Mode       string `help:"Which figures to draw." enum:"each,total,both" default:"both"`
	SummaryDir string `help:"Summary input directory." default:"./impact"`
	FigDir     string `help:"Figure output directory." default:"./figures_post"`
}

func (c *PostCmd) Run(cfg *config.Config) error {
	job := &post.SummaryJob{
		SummaryDir: c.SummaryDir,
		FigDir:     c.FigDir,
		Case:       c.Case,
		Mode:       c.Mode,
		Start:      c.Start,
		End:        c.End,
		IRIndex:    cfg.IRIndex,
		MWIndex:    cfg.MWIndex,
	}
	return job.Run()
}

type DetailCmd struct {
	Start string `arg:"" help:"First cycle (YYYYMMDDHH)."`
	End   string `arg:"" help:"Last cycle (YYYYMMDDHH)."`

	DetailDir string `help:"Detail input directory." default:"./impact_detail"`
	FigDir    string `help:"Figure output directory." default:"./figures_detail"`
}

func (c *DetailCmd) Run(cfg *config.Config) error {
	job := &post.SpatialJob{
		DetailDir: c.DetailDir,
		FigDir:    c.FigDir,
		Start:     c.Start,
		End:       c.End,
	}
	return job.Run()
}

type FetchCmd struct {
	YYYY     string `arg:"" name:"yyyy"`
	MM       string `arg:"" name:"mm"`
	DD       string `arg:"" name:"dd"`
	HH       string `arg:"" name:"hh"`
	DataPath string `arg:"" help:"Local root to download into."`

	Host      string `help:"FTP host:port." required:"" env:"DATAIMPACT_FTP_HOST"`
	User      string `env:"DATAIMPACT_FTP_USER"`
	Password  string `env:"DATAIMPACT_FTP_PASSWORD"`
	RemoteDir string `help:"Remote directory holding the cycle's diag files." required:""`
	Family    string `help:"Which sensor families to fetch." enum:"conv,conv_uv,sate,all" default:"all"`
}

func (c *FetchCmd) Run(cfg *config.Config) error {
	var sensors []string
	switch c.Family {
	case "conv":
		sensors = cfg.ConvSensors
	case "conv_uv":
		sensors = cfg.WindSensors
	case "sate":
		sensors = cfg.SateSensors
	default:
		sensors = append(sensors, cfg.ConvSensors...)
		sensors = append(sensors, cfg.WindSensors...)
		sensors = append(sensors, cfg.SateSensors...)
	}
	cycle := c.YYYY + c.MM + c.DD + c.HH
	client := fetch.NewClient(c.Host, c.User, c.Password, c.RemoteDir)
	return client.FetchCycle(c.HH, cycle, sensors, c.DataPath)
}

type ShowDetailCmd struct {
	File string `arg:"" help:"Detail record file." type:"existingfile"`
	Rows int    `help:"Rows to print." default:"10"`
}

func (c *ShowDetailCmd) Run(cfg *config.Config) error {
	det, err := persist.ReadDetail(c.File)
	if err != nil {
		return err
	}
	n := det.Len()
	show := c.Rows
	if show > n {
		show = n
	}
	fmt.Printf("file: %s\ntotal points: %d\n\n", c.File, n)
	fmt.Printf("%5s  %8s  %9s  %8s  %10s  %12s  %8s\n",
		"Index", "Lat", "Lon", "Press", "ObsType", "Jo_diff", "InvErr")
	for i := 0; i < show; i++ {
		fmt.Printf("%5d  %8.3f  %9.3f  %8.1f  %10d  %12.4f  %8.4f\n",
			i, det.Latitude[i], det.Longitude[i], det.Pressure[i],
			det.ObservationType[i], det.JoDiff[i], det.InvObsErrors[i])
	}
	return nil
}

type InfoCmd struct {
	File string `arg:"" help:"Diagnostic NetCDF file." type:"existingfile"`
}

func (c *InfoCmd) Run(cfg *config.Config) error {
	return diag.PrintInfo(os.Stdout, c.File)
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("dataimpact"),
		kong.Description("Observation-impact (Jo-diff) statistics from data-assimilation diagnostic files."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
		kong.UsageOnError(),
	)

	cfg := config.Default()
	if cli.Config != "" {
		loaded, err := config.Load(cli.Config)
		ctx.FatalIfErrorf(err)
		cfg = loaded
	}

	if cli.MetricsListen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(cli.MetricsListen, mux); err != nil {
				log.Printf("metrics listener: %v", err)
			}
		}()
	}

	ctx.FatalIfErrorf(ctx.Run(cfg))
}

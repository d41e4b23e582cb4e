package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/wentf9/ftpmirror/cmd/utils"
	"github.com/wentf9/ftpmirror/global"
	"github.com/wentf9/ftpmirror/pkg/config"
	"github.com/wentf9/ftpmirror/pkg/ftp"
	"github.com/wentf9/ftpmirror/pkg/logger"
	"github.com/wentf9/ftpmirror/pkg/mirror"
	"github.com/wentf9/ftpmirror/pkg/models"
	"github.com/wentf9/ftpmirror/pkg/progress"
)

const (
	progressAuto = "auto"
	progressLine = "line"
	progressBar  = "bar"
	progressLog  = "log"
)

var progressStyles = []string{progressAuto, progressLine, progressBar, progressLog}

// SiteFlags 是 mirror 和 site add 共用的站点参数
type SiteFlags struct {
	Port         uint16
	Timeout      time.Duration
	ChunkSize    string
	FinalOnly    bool
	TypedListing bool
	DisableEPSV  bool
	Progress     string
}

func (f *SiteFlags) Bind(cmd *cobra.Command) {
	cmd.Flags().Uint16VarP(&f.Port, "port", "p", 0, "FTP端口 (默认21)")
	cmd.Flags().DurationVar(&f.Timeout, "timeout", 0, "连接超时时间 (默认10s)")
	cmd.Flags().StringVar(&f.ChunkSize, "chunk-size", "", "每次读取的块大小, 例如 8KB")
	cmd.Flags().BoolVarP(&f.FinalOnly, "final-only", "q", false, "每个文件只显示完成时的进度")
	cmd.Flags().BoolVar(&f.TypedListing, "typed-listing", false, "使用 LIST 返回的类型区分文件和目录, 不再按名称中的'.'判断")
	cmd.Flags().BoolVar(&f.DisableEPSV, "disable-epsv", false, "禁用 EPSV, 使用 PASV 被动模式")
	cmd.Flags().StringVar(&f.Progress, "progress", "", "进度显示方式: auto, line, bar, log")
}

// Apply 只覆盖命令行中显式指定的参数
func (f *SiteFlags) Apply(cmd *cobra.Command, site *models.Site) {
	flags := cmd.Flags()
	if flags.Changed("port") {
		site.Port = int(f.Port)
	}
	if flags.Changed("timeout") {
		site.Timeout = f.Timeout
	}
	if flags.Changed("chunk-size") {
		site.ChunkSize = f.ChunkSize
	}
	if flags.Changed("final-only") {
		site.FinalProgressOnly = f.FinalOnly
	}
	if flags.Changed("typed-listing") {
		site.TypedListing = f.TypedListing
	}
	if flags.Changed("disable-epsv") {
		site.DisableEPSV = f.DisableEPSV
	}
	if flags.Changed("progress") {
		site.Progress = f.Progress
	}
}

// validateSite 补齐默认值并检查参数, 返回解析后的块大小
func validateSite(site *models.Site) (int, error) {
	if site.Address == "" {
		return 0, errors.New("未提供主机地址")
	}
	if site.Port == 0 {
		site.Port = ftp.DefaultPort
	}
	if site.Port < 0 || site.Port > 65535 {
		return 0, fmt.Errorf("无效的端口: %d", site.Port)
	}
	if site.RemotePath == "" {
		site.RemotePath = "/"
	}
	if site.LocalPath == "" {
		site.LocalPath = "."
	}
	if site.Progress == "" {
		site.Progress = progressAuto
	}
	if !slices.Contains(progressStyles, site.Progress) {
		return 0, fmt.Errorf("未知的进度显示方式: %s", site.Progress)
	}
	chunk, err := config.ParseChunkSize(site.ChunkSize)
	if err != nil {
		return 0, err
	}
	if chunk == 0 {
		chunk = mirror.DefaultChunkSize
	}
	return chunk, nil
}

func configFilePath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p
	}
	return utils.GetConfigFilePath()
}

// newReporter 根据样式创建进度展示, auto 在终端中刷新同一行, 否则输出日志
func newReporter(style string, out io.Writer, isTerminal bool) (progress.Factory, error) {
	switch style {
	case "", progressAuto:
		if isTerminal {
			return progress.LineReporter(out), nil
		}
		return progress.LogReporter(logger.New(out, slog.LevelInfo), 10), nil
	case progressLine:
		return progress.LineReporter(out), nil
	case progressBar:
		return progress.BarReporter(out), nil
	case progressLog:
		return progress.LogReporter(logger.New(out, slog.LevelInfo), 10), nil
	}
	return nil, fmt.Errorf("未知的进度显示方式: %s", style)
}

type MirrorOptions struct {
	SiteFlags
	ConfigPath string
	SaveAs     string
	Trace      bool

	args      []string
	store     config.Store
	cfg       *config.Configuration
	siteName  string
	site      models.Site
	chunkSize int
}

func NewMirrorOptions() *MirrorOptions {
	return &MirrorOptions{}
}

func NewCmdMirror() *cobra.Command {
	return newCmdMirror(NewMirrorOptions())
}

func newCmdMirror(o *MirrorOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mirror <site|host[:port]> [remote_path] [local_path]",
		Aliases: []string{"get", "pull"},
		Short:   "把远程 FTP 目录树镜像到本地",
		Long: `通过匿名 FTP 把远程目录树镜像到本地目录。
用法示例:
ftpmirror mirror dulik.dev.tbscz /pub/SDK/vcpkg/ .
ftpmirror mirror ftp://ftp.example.com:2121/pub ./pub -q
ftpmirror mirror vcpkg                    (使用 site add 保存的站点)
第一个参数可以是已保存的站点名, 也可以是 host[:port], 端口默认为21
远程路径默认为 /, 本地路径默认为当前目录
名称中含有'.'的条目视为文件, 其余视为目录; 服务器支持 LIST 时可用 --typed-listing 获取准确类型
单个文件或目录失败只会记录错误并继续, 不影响退出码`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(); err != nil {
				return fmt.Errorf("参数错误: %v", err)
			}
			return o.Run(cmd.Context(), cmd.OutOrStdout())
		},
	}
	o.SiteFlags.Bind(cmd)
	cmd.Flags().StringVar(&o.SaveAs, "save", "", "下载结束后把本次参数保存为站点")
	cmd.Flags().BoolVar(&o.Trace, "trace", false, "输出 FTP 控制连接的原始协议内容")
	return cmd
}

func (o *MirrorOptions) Complete(cmd *cobra.Command, args []string) error {
	o.args = args
	if o.ConfigPath == "" {
		o.ConfigPath = configFilePath(cmd)
	}
	o.store = config.NewDefaultStore(o.ConfigPath)
	cfg, err := o.store.Load()
	if err != nil {
		return fmt.Errorf("加载配置文件失败: %v", err)
	}
	o.cfg = cfg
	if cfg.LogLevel != "" && !cmd.Flags().Changed("log-level") && !cmd.Flags().Changed("debug") {
		logger.SetLogLevel(cfg.LogLevel)
	}

	provider := config.NewProvider(cfg)
	if len(args) > 0 {
		if name := provider.Find(args[0]); name != "" {
			o.siteName = name
			o.site, _ = provider.GetSite(name)
		} else {
			host, port, remotePath, err := utils.ParseHost(args[0])
			if err != nil {
				return err
			}
			o.site = models.Site{Address: host, Port: int(port), RemotePath: remotePath}
		}
	}
	if len(args) > 1 {
		o.site.RemotePath = args[1]
	}
	if len(args) > 2 {
		o.site.LocalPath = args[2]
	}
	o.SiteFlags.Apply(cmd, &o.site)
	return nil
}

func (o *MirrorOptions) Validate() error {
	if len(o.args) == 0 || len(o.args) > 3 {
		return fmt.Errorf("期望1到3个参数，但提供了 %d 个", len(o.args))
	}
	chunk, err := validateSite(&o.site)
	if err != nil {
		return err
	}
	o.chunkSize = chunk
	return nil
}

func (o *MirrorOptions) Run(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	reporter, err := newReporter(o.site.Progress, out, global.IsTerminal)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(o.site.Address, strconv.Itoa(o.site.Port))
	fmt.Fprintf(out, "Downloading from %s%s ...\n", addr, o.site.RemotePath)

	ftpOpts := []ftp.Option{
		ftp.WithTimeout(o.site.Timeout),
		ftp.WithDisableEPSV(o.site.DisableEPSV),
	}
	if o.Trace {
		ftpOpts = append(ftpOpts, ftp.WithDebugOutput(os.Stderr))
	}
	client, err := ftp.Dial(ctx, addr, ftpOpts...)
	if err != nil {
		return fmt.Errorf("连接失败: %v", err)
	}
	defer client.Close()
	logger.Logger.Debug("connected", "addr", addr, "site", o.siteName)

	m := mirror.New(client,
		mirror.WithOutput(out),
		mirror.WithReporter(reporter),
		mirror.WithLogger(logger.Logger),
		mirror.WithChunkSize(o.chunkSize),
		mirror.WithFinalProgressOnly(o.site.FinalProgressOnly),
		mirror.WithTypedListing(o.site.TypedListing),
	)
	sum := m.DownloadTree(ctx, o.site.RemotePath, o.site.LocalPath)
	fmt.Fprintf(out, "Download finished: %d files, %d directories, %s, %d failures\n",
		sum.Files, sum.Dirs, progress.ReadableSize(sum.Bytes, 2), sum.Failures)

	if o.SaveAs != "" {
		config.NewProvider(o.cfg).AddSite(o.SaveAs, o.site)
		if err := o.store.Save(o.cfg); err != nil {
			return fmt.Errorf("保存配置文件失败: %v", err)
		}
		fmt.Fprintf(out, "站点已保存: %s\n", o.SaveAs)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(NewCmdMirror())
}

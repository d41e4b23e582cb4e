package cmd

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/wentf9/ftpmirror/cmd/utils"
	"github.com/wentf9/ftpmirror/pkg/config"
	"github.com/wentf9/ftpmirror/pkg/models"
)

func NewCmdSite() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "site",
		Aliases: []string{"sites"},
		Short:   "管理保存的镜像站点",
		Long:    `管理保存的镜像站点。支持列出、添加和删除操作, 保存的站点可以直接作为 mirror 的第一个参数。`,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	cmd.AddCommand(NewCmdSiteList())
	cmd.AddCommand(NewCmdSiteAdd())
	cmd.AddCommand(NewCmdSiteRemove())

	return cmd
}

func loadProvider(cmd *cobra.Command) (config.Store, *config.Configuration, config.ConfigProvider, error) {
	store := config.NewDefaultStore(configFilePath(cmd))
	cfg, err := store.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("加载配置文件失败: %v", err)
	}
	return store, cfg, config.NewProvider(cfg), nil
}

func NewCmdSiteList() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "列出保存的站点",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, provider, err := loadProvider(cmd)
			if err != nil {
				return err
			}
			printSites(cmd.OutOrStdout(), provider)
			return nil
		},
	}
}

func printSites(out io.Writer, provider config.ConfigProvider) {
	names := provider.ListSites()
	if len(names) == 0 {
		fmt.Fprintln(out, "没有保存的站点")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tADDRESS\tREMOTE\tLOCAL\tCHUNK\tPROGRESS")
	for _, name := range names {
		site, _ := provider.GetSite(name)
		chunk := "-"
		if n, err := config.ParseChunkSize(site.ChunkSize); err == nil && n > 0 {
			chunk = config.FormatChunkSize(n)
		}
		progressStyle := site.Progress
		if site.FinalProgressOnly {
			progressStyle += " (final only)"
		}
		fmt.Fprintf(w, "%s\t%s:%s\t%s\t%s\t%s\t%s\n",
			name, site.Address, strconv.Itoa(site.Port), site.RemotePath, site.LocalPath, chunk, progressStyle)
	}
	w.Flush()
}

func NewCmdSiteAdd() *cobra.Command {
	var flags SiteFlags
	cmd := &cobra.Command{
		Use:   "add <name> <host[:port]> [remote_path] [local_path]",
		Short: "保存一个镜像站点",
		Long: `保存一个镜像站点, 之后可以使用 ftpmirror mirror <name> 直接镜像。
用法示例:
ftpmirror site add vcpkg dulik.dev.tbscz /pub/SDK/vcpkg/ ./external -q
同名站点会被覆盖`,
		Args: cobra.RangeArgs(2, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			host, port, remotePath, err := utils.ParseHost(args[1])
			if err != nil {
				return fmt.Errorf("参数错误: %v", err)
			}
			site := models.Site{Address: host, Port: int(port), RemotePath: remotePath}
			if len(args) > 2 {
				site.RemotePath = args[2]
			}
			if len(args) > 3 {
				site.LocalPath = args[3]
			}
			flags.Apply(cmd, &site)
			if _, err := validateSite(&site); err != nil {
				return fmt.Errorf("参数错误: %v", err)
			}

			store, cfg, provider, err := loadProvider(cmd)
			if err != nil {
				return err
			}
			provider.AddSite(name, site)
			if err := store.Save(cfg); err != nil {
				return fmt.Errorf("保存配置文件失败: %v", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "站点已保存: %s\n", name)
			return nil
		},
	}
	flags.Bind(cmd)
	return cmd
}

func NewCmdSiteRemove() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm", "delete"},
		Short:   "删除保存的站点",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cfg, provider, err := loadProvider(cmd)
			if err != nil {
				return err
			}
			if !provider.DeleteSite(args[0]) {
				return fmt.Errorf("站点 %s 不存在", args[0])
			}
			if err := store.Save(cfg); err != nil {
				return fmt.Errorf("保存配置文件失败: %v", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "站点已删除: %s\n", args[0])
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(NewCmdSite())
}

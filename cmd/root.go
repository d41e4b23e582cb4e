package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/wentf9/ftpmirror/cmd/version"
	"github.com/wentf9/ftpmirror/pkg/logger"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ftpmirror [command] [flags]",
	Short: "ftpmirror 把远程 FTP 目录树完整镜像到本地",
	Long: `ftpmirror 通过匿名 FTP 把远程目录树逐个文件地下载到本地目录,
下载过程中显示每个文件的进度。
单个文件或子目录失败只会记录错误, 不会中止其它目录的下载。
常用站点可以通过 site 子命令保存, 之后直接按名称镜像。`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		versionFlag, _ := cmd.Flags().GetBool("version")
		if versionFlag {
			version.PrintFullVersion(cmd.OutOrStdout())
			return
		}
		cmd.Help() // 显示帮助信息
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			logger.SetLogLevel(level)
		}
		debugFlag, _ := cmd.Flags().GetBool("debug")
		if debugFlag {
			// 开启调试模式
			logger.SetLogLevel("debug")
			logger.Logger.Debug("调试模式已开启")
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "显示版本信息")
	rootCmd.PersistentFlags().Bool("debug", false, "开启调试模式")
	rootCmd.PersistentFlags().String("log-level", "", "日志级别: debug, info, warn, error")
	rootCmd.PersistentFlags().String("config", "", "配置文件路径 (默认 ~/.ftpmirror/config.yaml)")
}

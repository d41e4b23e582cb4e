package global

import (
	"os"

	"golang.org/x/term"
)

var (
	IsTerminal bool = term.IsTerminal(int(os.Stdout.Fd())) //stdout 是否是终端,false表示可能是管道或重定向
)

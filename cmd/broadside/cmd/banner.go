package cmd

import (
	"fmt"
)

const banner = `
  ____                      _     _     _
 | __ ) _ __ ___   __ _  __| |___(_) __| | ___
 |  _ \| '__/ _ \ / _` + "`" + ` |/ _` + "`" + ` / __| |/ _` + "`" + ` |/ _ \
 | |_) | | | (_) | (_| | (_| \__ \ | (_| |  __/
 |____/|_|  \___/ \__,_|\__,_|___/_|\__,_|\___|

`

func printBanner() {
	fmt.Printf("\x1b[34m%s\x1b[0m", banner)
	fmt.Printf("\x1b[32m  Broadside Press - Version %s\x1b[0m\n\n", Version)
}

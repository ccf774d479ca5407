package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// screenshotsCmd represents the screenshots command
var screenshotsCmd = &cobra.Command{
	Use:   "screenshots",
	Short: "List captured screenshot files",
	RunE:  runScreenshots,
}

func init() {
	rootCmd.AddCommand(screenshotsCmd)
}

func runScreenshots(cmd *cobra.Command, args []string) error {
	a := getApp()

	entries, err := os.ReadDir(a.Config.ScreenshotDir)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No screenshots captured yet.")
			return nil
		}
		return err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "screenshot_") && strings.HasSuffix(e.Name(), ".png") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		fmt.Println("No screenshots captured yet.")
		return nil
	}

	fmt.Printf("Screenshots in %s (%d):\n", a.Config.ScreenshotDir, len(names))
	for i, name := range names {
		fmt.Printf("%2d. %s\n", i+1, filepath.Join(a.Config.ScreenshotDir, name))
	}
	return nil
}

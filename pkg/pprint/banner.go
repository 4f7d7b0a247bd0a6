// Package pprint: dtogen ASCII banner.
package pprint

import "fmt"

// bannerLines is the ASCII art shown in version and help output.
var bannerLines = []string{
	" ██████╗ ████████╗ ██████╗  ██████╗ ███████╗███╗   ██╗",
	" ██╔══██╗╚══██╔══╝██╔═══██╗██╔════╝ ██╔════╝████╗  ██║",
	" ██║  ██║   ██║   ██║   ██║██║  ███╗█████╗  ██╔██╗ ██║",
	" ██║  ██║   ██║   ██║   ██║██║   ██║██╔══╝  ██║╚██╗██║",
	" ██████╔╝   ██║   ╚██████╔╝╚██████╔╝███████╗██║ ╚████║",
	" ╚═════╝    ╚═╝    ╚═════╝  ╚═════╝ ╚══════╝╚═╝  ╚═══╝",
}

// PrintBanner prints the dtogen banner with version and tagline.
func PrintBanner(version, buildDate string) {
	styles := []func(...string) string{
		stylePrimary.Render, stylePrimary.Render,
		styleAccent.Render, styleAccent.Render,
		styleText.Render, styleMuted.Render,
	}

	fmt.Fprintln(Out)
	for i, line := range bannerLines {
		fmt.Fprintln(Out, styles[i](line))
	}
	fmt.Fprintln(Out)

	tagline := styleMuted.Render("  JSON samples to Java DTOs, compiled output to runnable archives")
	versionStr := styleAccent.Render("  " + version)
	if buildDate != "" {
		versionStr += styleMuted.Render("  built " + buildDate)
	}

	fmt.Fprintln(Out, tagline)
	fmt.Fprintln(Out, versionStr)
	fmt.Fprintln(Out)
}

package main

// appVersion is the installed build's version, set at link time with
// -ldflags "-X main.appVersion=x.y.z".
var appVersion = "1.0.0"

// appProfile is the build profile. Downloads are never offered in
// "production".
var appProfile = "production"

func init() {
	rootCmd.Version = appVersion
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

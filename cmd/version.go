/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

// versionTemplate renders --version as "nvr <version>[+<commit>]".
const versionTemplate = "nvr {{.Version}}\n"

package wrapper

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewConfig_Defaults(t *testing.T) {
	c := NewConfig()
	if c.HeaderType != HeaderConsole {
		t.Errorf("HeaderType = %q", c.HeaderType)
	}
	if c.JRE.JDKPreference != PreferJRE {
		t.Errorf("JDKPreference = %q", c.JRE.JDKPreference)
	}
}

func TestConfig_Encode(t *testing.T) {
	c := NewConfig()
	c.HeaderType = HeaderGUI
	c.Jar = `C:\apps\demo.jar`
	c.Outfile = `C:\apps\demo.exe`
	c.JRE.MinVersion = "1.8.0"
	c.SingleInstance = &SingleInstance{MutexName: "Demo_1.0", WindowTitle: "Demo & Co"}

	data, err := c.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	s := string(data)
	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		"<launch4jConfig>",
		"<headerType>gui</headerType>",
		"<minVersion>1.8.0</minVersion>",
		"<jdkPreference>preferJre</jdkPreference>",
		"<mutexName>Demo_1.0</mutexName>",
		"<windowTitle>Demo &amp; Co</windowTitle>",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("encoded config missing %q:\n%s", want, s)
		}
	}
	for _, absent := range []string{"<maxVersion>", "<icon>", "<versionInfo>"} {
		if strings.Contains(s, absent) {
			t.Errorf("encoded config should not contain %s", absent)
		}
	}
}

func TestConfig_WriteFileRoundTrip(t *testing.T) {
	c := NewConfig()
	c.Jar = "demo.jar"
	c.Outfile = "demo.exe"
	c.VersionInfo = &VersionInfo{
		FileVersion:      "2.1.0.0",
		TxtFileVersion:   "2.1",
		CompanyName:      "Acme",
		OriginalFilename: "demo.exe",
	}

	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := c.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var got Config
	if err := xml.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.VersionInfo == nil || got.VersionInfo.CompanyName != "Acme" || got.VersionInfo.FileVersion != "2.1.0.0" {
		t.Errorf("VersionInfo = %+v", got.VersionInfo)
	}
	if got.Outfile != "demo.exe" {
		t.Errorf("Outfile = %q", got.Outfile)
	}
}

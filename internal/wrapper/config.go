package wrapper

import (
	"encoding/xml"
	"fmt"
	"os"
)

// Header types.
const (
	HeaderGUI     = "gui"
	HeaderConsole = "console"
)

// JDK preferences.
const (
	PreferJRE = "preferJre"
	JDKOnly   = "jdkOnly"
)

// Config is a launch4j build configuration.
type Config struct {
	XMLName        xml.Name        `xml:"launch4jConfig"`
	DontWrapJar    bool            `xml:"dontWrapJar"`
	HeaderType     string          `xml:"headerType"`
	Jar            string          `xml:"jar"`
	Outfile        string          `xml:"outfile"`
	ErrTitle       string          `xml:"errTitle,omitempty"`
	ChangeDir      string          `xml:"chdir"`
	Priority       string          `xml:"priority"`
	StayAlive      bool            `xml:"stayAlive"`
	RestartOnCrash bool            `xml:"restartOnCrash"`
	Icon           string          `xml:"icon,omitempty"`
	SingleInstance *SingleInstance `xml:"singleInstance,omitempty"`
	JRE            JRE             `xml:"jre"`
	VersionInfo    *VersionInfo    `xml:"versionInfo,omitempty"`
}

// SingleInstance restricts the executable to one running instance.
type SingleInstance struct {
	MutexName   string `xml:"mutexName"`
	WindowTitle string `xml:"windowTitle,omitempty"`
}

// JRE constrains the Java runtime the executable will launch with.
type JRE struct {
	Path          string `xml:"path,omitempty"`
	MinVersion    string `xml:"minVersion,omitempty"`
	MaxVersion    string `xml:"maxVersion,omitempty"`
	JDKPreference string `xml:"jdkPreference"`
}

// VersionInfo is the Windows file version resource.
type VersionInfo struct {
	FileVersion       string `xml:"fileVersion"`
	TxtFileVersion    string `xml:"txtFileVersion"`
	FileDescription   string `xml:"fileDescription"`
	Copyright         string `xml:"copyright"`
	ProductVersion    string `xml:"productVersion"`
	TxtProductVersion string `xml:"txtProductVersion"`
	ProductName       string `xml:"productName"`
	CompanyName       string `xml:"companyName"`
	InternalName      string `xml:"internalName"`
	OriginalFilename  string `xml:"originalFilename"`
}

// NewConfig returns a configuration with launch4j's defaults for a console
// executable.
func NewConfig() *Config {
	return &Config{
		HeaderType: HeaderConsole,
		ChangeDir:  ".",
		Priority:   "normal",
		JRE:        JRE{JDKPreference: PreferJRE},
	}
}

// Encode renders the configuration as an XML document.
func (c *Config) Encode() ([]byte, error) {
	body, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding wrapper config: %w", err)
	}
	out := append([]byte(xml.Header), body...)
	return append(out, '\n'), nil
}

// WriteFile encodes the configuration to path.
func (c *Config) WriteFile(path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing wrapper config: %w", err)
	}
	return nil
}

package ir

// Origin sentinels used in AccessEntry.URI.
const (
	// LocalOrigin identifies the application's own packaged content.
	LocalOrigin = "WIDGET_LOCAL"

	// WildcardOrigin is the access uri meaning "any origin". It never
	// appears in an AccessList; it only sets Config.HasMultiAccess.
	WildcardOrigin = "*"
)

// ConfigXML is the manifest file name recorded on every Config.
const ConfigXML = "config.xml"

// Orientation values accepted in rim:orientation.
const (
	OrientationLandscape = "landscape"
	OrientationPortrait  = "portrait"
)

// Invoke target types after upper-casing.
const (
	InvokeTypeApplication = "APPLICATION"
	InvokeTypeViewer      = "VIEWER"
)

// Filter property variables.
const (
	FilterVarExts = "exts"
	FilterVarURIs = "uris"
)

// DefaultLocale keys images that carry no xml:lang.
const DefaultLocale = "default"

// DefaultIcon is the icon a record carries when the manifest declares
// none. The packager supplies the file.
const DefaultIcon = "default-icon.png"

// Config is the canonical configuration record produced by one compile.
type Config struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Version     string   `json:"version"`
	BuildID     string   `json:"buildId,omitempty"`
	Author      string   `json:"author"`
	AuthorURL   string   `json:"authorURL,omitempty"`
	AuthorEmail string   `json:"authorEmail,omitempty"`
	Copyright   string   `json:"copyright,omitempty"`
	License     string   `json:"license"`
	LicenseURL  string   `json:"licenseURL"`
	Icon        []string `json:"icon,omitempty"`
	ConfigXML   string   `json:"configXML"`

	Orientation                      string `json:"orientation,omitempty"`
	AutoOrientation                  bool   `json:"autoOrientation"`
	Content                          string `json:"content,omitempty"`
	ForegroundSource                 string `json:"foregroundSource,omitempty"`
	ContentType                      string `json:"contentType,omitempty"`
	ContentCharSet                   string `json:"contentCharSet,omitempty"`
	AllowInvokeParams                string `json:"allowInvokeParams,omitempty"`
	BackgroundColor                  *int64 `json:"backgroundColor,omitempty"`
	EnableFlash                      bool   `json:"enableFlash"`
	AutoDeferNetworkingAndJavaScript bool   `json:"autoDeferNetworkingAndJavaScript"`

	CustomHeaders map[string]string `json:"customHeaders,omitempty"`

	AccessList     []AccessEntry `json:"accessList"`
	HasMultiAccess bool          `json:"hasMultiAccess"`

	Permissions   []string       `json:"permissions"`
	InvokeTargets []InvokeTarget `json:"invoke-target,omitempty"`

	Splash        []string         `json:"splash,omitempty"`
	SplashScreens *LocalizedImages `json:"splashScreens,omitempty"`
	Icons         *LocalizedImages `json:"icons,omitempty"`
}

// AccessEntry is one origin rule plus the features whitelisted for it.
type AccessEntry struct {
	URI            string       `json:"uri"`
	AllowSubDomain bool         `json:"allowSubDomain"`
	Features       []FeatureRef `json:"features"`
}

// FeatureRef names a feature on an access entry's whitelist.
type FeatureRef struct {
	ID       string `json:"id"`
	Required bool   `json:"required"`
	Version  string `json:"version,omitempty"`
}

// InvokeTarget is a declared external invocation endpoint.
type InvokeTarget struct {
	ID                       string   `json:"id"`
	Type                     string   `json:"type"`
	RequireSourcePermissions string   `json:"requireSourcePermissions,omitempty"`
	Filters                  []Filter `json:"filter,omitempty"`
}

// Filter restricts which invocations reach an InvokeTarget.
type Filter struct {
	Actions    []string         `json:"action"`
	MimeTypes  []string         `json:"mime-type"`
	Properties []FilterProperty `json:"property,omitempty"`
}

// FilterProperty is an exts or uris constraint on a Filter.
type FilterProperty struct {
	Var   string `json:"var"`
	Value string `json:"value"`
}

// LocalizedImages groups image paths by locale tag. Images without a
// language tag are keyed by DefaultLocale. Per-locale order follows the
// manifest.
type LocalizedImages struct {
	Image map[string][]string `json:"image"`
}

// DefaultGlobalFeatures returns the features every access entry receives
// whether or not the manifest declares them. A fresh slice is returned on
// each call so callers may modify it.
func DefaultGlobalFeatures() []FeatureRef {
	return []FeatureRef{
		{ID: "blackberry.event", Required: true, Version: "1.0.0.0"},
	}
}

// LocalEntry returns the default-origin entry of the access list, or nil
// if the list was not built by the compiler.
func (c *Config) LocalEntry() *AccessEntry {
	for i := range c.AccessList {
		if c.AccessList[i].URI == LocalOrigin {
			return &c.AccessList[i]
		}
	}
	return nil
}

// HasPermission reports whether name is among the record's permissions.
func (c *Config) HasPermission(name string) bool {
	for _, p := range c.Permissions {
		if p == name {
			return true
		}
	}
	return false
}

// HasFeature reports whether the feature id is whitelisted on entry.
func (e *AccessEntry) HasFeature(id string) bool {
	for _, f := range e.Features {
		if f.ID == id {
			return true
		}
	}
	return false
}

package config

import (
	_ "embed"
	"errors"
	"io/fs"
	"os"
	"path"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/josephlewis42/vterm/core/recording"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte

	//go:embed default/root_fs.tar.gz
	rootFsData []byte
)

const (
	ConfigurationName = "config.yaml"
	PrivateKeyName    = "private_key"
	RootFSName        = "root_fs.tar.gz"
	AppLogName        = "app.log"
	RecordingsDir     = "recordings"
)

type Configuration struct {
	configFs afero.Fs

	Hostname         string `json:"hostname" validate:"required,hostname_rfc1123"`
	SSHPort          int    `json:"ssh_port" validate:"gte=0,lte=65535"`
	SSHBanner        string `json:"ssh_banner"`
	AllowAnyPassword bool   `json:"allow_any_password"`
	RecordSessions   bool   `json:"record_sessions"`

	GlobalPasswords []string `json:"global_passwords"`

	Users []User `json:"users" validate:"unique=Username,dive"`

	Shell   Shell   `json:"shell"`
	Storage Storage `json:"storage"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

type User struct {
	Username  string   `json:"username" validate:"required,alphanum"`
	Passwords []string `json:"passwords" validate:"unique"`
}

// Shell holds the terminal's tunables.
type Shell struct {
	DefaultExtension string `json:"default_extension" validate:"required,alphanum"`
	ScriptExtension  string `json:"script_extension" validate:"required,alphanum"`
	HistoryLimit     int    `json:"history_limit" validate:"gte=0"`
	MaxScriptDepth   int    `json:"max_script_depth" validate:"gte=1,lte=64"`
	// Prompt supports \u (user), \h (hostname), \w (working path) and \$.
	Prompt string `json:"prompt" validate:"required"`
}

// Storage configures the filesystem sessions see.
type Storage struct {
	// PerUserRoots, if set, gives every user a private tree under this
	// directory instead of a shared one.
	PerUserRoots string `json:"per_user_roots" validate:"omitempty,startswith=/"`
	// ReadBytesPerSecond throttles file reads, zero disables it.
	ReadBytesPerSecond int64 `json:"read_bytes_per_second" validate:"gte=0"`
}

func (c *Configuration) fs() afero.Fs {
	return c.configFs
}

// PrivateKeyPem returns the bytes of the private key.
func (c *Configuration) PrivateKeyPem() ([]byte, error) {
	return afero.ReadFile(c.fs(), PrivateKeyName)
}

// OpenAppLog opens the application log in an append only state.
func (c *Configuration) OpenAppLog() (afero.File, error) {
	return c.fs().OpenFile(AppLogName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

func (c *Configuration) ReadAppLog() (afero.File, error) {
	return c.fs().OpenFile(AppLogName, os.O_RDONLY, 0600)
}

// OpenFilesystemTarGz opens the .tar.gz file the filesystem is seeded from.
func (c *Configuration) OpenFilesystemTarGz() (afero.File, error) {
	return c.fs().Open(RootFSName)
}

// CreateRecording creates the recording file for a session.
func (c *Configuration) CreateRecording(sessionID string) (afero.File, error) {
	if err := c.fs().MkdirAll(RecordingsDir, 0700); err != nil {
		return nil, err
	}
	return c.fs().OpenFile(recordingPath(sessionID), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
}

// OpenRecording opens a session's recording. The extension is optional.
func (c *Configuration) OpenRecording(sessionID string) (afero.File, error) {
	return c.fs().Open(recordingPath(sessionID))
}

// ListRecordings lists recordings, oldest first.
func (c *Configuration) ListRecordings() ([]os.FileInfo, error) {
	infos, err := afero.ReadDir(c.fs(), RecordingsDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].ModTime().Before(infos[j].ModTime())
	})
	return infos, nil
}

func recordingPath(sessionID string) string {
	name := path.Base("/" + sessionID)
	name = strings.TrimSuffix(name, "."+recording.AsciicastFileExt)
	return path.Join(RecordingsDir, name+"."+recording.AsciicastFileExt)
}

// GetPasswords returns allowable passwords for the given username.
func (c *Configuration) GetPasswords(username string) []string {
	var out []string
	for _, v := range c.Users {
		if v.Username == username {
			out = append(out, v.Passwords...)
		}
	}

	out = append(out, c.GlobalPasswords...)
	return out
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

package config

import (
	"net"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Init loads .env, enables environment lookups and binds the persistent
// flags of root. A flag named max-chunk-size binds to key max_chunk_size.
func Init(root *cobra.Command) {
	viper.AutomaticEnv()
	_ = godotenv.Load(".env")
	if root != nil {
		root.PersistentFlags().VisitAll(func(f *pflag.Flag) {
			_ = viper.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
		})
	}
	setDefaults()
}

func setDefaults() {
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeySplitterType, "recursive")
	viper.SetDefault(KeyChunkSize, 1000)
	viper.SetDefault(KeyChunkOverlap, 200)
	viper.SetDefault(KeyMaxChunkSize, 10000)
	viper.SetDefault(KeyMaxChunkOverlap, 1000)
	viper.SetDefault(KeyPreviewCount, 3)
	viper.SetDefault(KeyPreviewLength, 200)
	viper.SetDefault(KeyOutputFormat, "md")
	viper.SetDefault(KeyOutputDir, "outputs")
	viper.SetDefault(KeyTokenEstimates, false)
	viper.SetDefault(KeyWorkers, 4)
	viper.SetDefault(KeyHost, "0.0.0.0")
	viper.SetDefault(KeyPort, 8000)
	viper.SetDefault(KeyMaxContentLength, 100<<20)
}

func LogLevel() string        { return viper.GetString(KeyLogLevel) }
func SplitterType() string    { return viper.GetString(KeySplitterType) }
func ChunkSize() int          { return viper.GetInt(KeyChunkSize) }
func ChunkOverlap() int       { return viper.GetInt(KeyChunkOverlap) }
func MaxChunkSize() int       { return viper.GetInt(KeyMaxChunkSize) }
func MaxChunkOverlap() int    { return viper.GetInt(KeyMaxChunkOverlap) }
func PreviewCount() int       { return viper.GetInt(KeyPreviewCount) }
func PreviewLength() int      { return viper.GetInt(KeyPreviewLength) }
func OutputFormat() string    { return viper.GetString(KeyOutputFormat) }
func OutputDir() string       { return viper.GetString(KeyOutputDir) }
func PresetsFile() string     { return viper.GetString(KeyPresetsFile) }
func TokenEstimates() bool    { return viper.GetBool(KeyTokenEstimates) }
func Workers() int            { return viper.GetInt(KeyWorkers) }
func MaxContentLength() int64 { return viper.GetInt64(KeyMaxContentLength) }
func ListenAddr() string      { return net.JoinHostPort(viper.GetString(KeyHost), strconv.Itoa(viper.GetInt(KeyPort))) }

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/scenecast/server/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 80,
	}
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	fps = configVar[int]{
		envKey:       "SERVER_FPS",
		flagKey:      "fps",
		defaultValue: 30,
	}
	canvasWidth = configVar[int]{
		envKey:       "SERVER_CANVAS_WIDTH",
		flagKey:      "canvas-width",
		defaultValue: 800,
	}
	canvasHeight = configVar[int]{
		envKey:       "SERVER_CANVAS_HEIGHT",
		flagKey:      "canvas-height",
		defaultValue: 600,
	}
	scenesLimit = configVar[int]{
		envKey:       "SERVER_SCENES_LIMIT",
		flagKey:      "scenes-limit",
		defaultValue: 25,
	}
	stepMs = configVar[int]{
		envKey:       "SERVER_STEP_MS",
		flagKey:      "step-ms",
		defaultValue: 500,
	}
	analyzerURL = configVar[string]{
		envKey:       "ANALYZER_URL",
		flagKey:      "analyzer-url",
		defaultValue: "http://localhost:8090",
	}
	analyzerTimeout = configVar[int]{
		envKey:       "ANALYZER_TIMEOUT",
		flagKey:      "analyzer-timeout",
		defaultValue: 15,
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "localhost",
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
	}
)

func loadAppConfig() *app.AppConfig {
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.Int(fps.flagKey, fps.defaultValue, "Frames broadcast per second while playing")
	pflag.Int(canvasWidth.flagKey, canvasWidth.defaultValue, "Canvas width in pixels")
	pflag.Int(canvasHeight.flagKey, canvasHeight.defaultValue, "Canvas height in pixels")
	pflag.Int(scenesLimit.flagKey, scenesLimit.defaultValue, "Maximum number of scenes in a session")
	pflag.Int(stepMs.flagKey, stepMs.defaultValue, "Default step size in milliseconds")
	pflag.String(analyzerURL.flagKey, analyzerURL.defaultValue, "Text analyzer base URL")
	pflag.Int(analyzerTimeout.flagKey, analyzerTimeout.defaultValue, "Text analyzer timeout in seconds")
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, "Redis port")
	pflag.String(redisHost.flagKey, redisHost.defaultValue, "Redis host")
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, "Redis password")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	viper.BindEnv(port.flagKey, port.envKey)
	viper.BindEnv(host.flagKey, host.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)
	viper.BindEnv(fps.flagKey, fps.envKey)
	viper.BindEnv(canvasWidth.flagKey, canvasWidth.envKey)
	viper.BindEnv(canvasHeight.flagKey, canvasHeight.envKey)
	viper.BindEnv(scenesLimit.flagKey, scenesLimit.envKey)
	viper.BindEnv(stepMs.flagKey, stepMs.envKey)
	viper.BindEnv(analyzerURL.flagKey, analyzerURL.envKey)
	viper.BindEnv(analyzerTimeout.flagKey, analyzerTimeout.envKey)
	viper.BindEnv(redisPort.flagKey, redisPort.envKey)
	viper.BindEnv(redisHost.flagKey, redisHost.envKey)
	viper.BindEnv(redisPassword.flagKey, redisPassword.envKey)

	viper.SetDefault(port.flagKey, port.defaultValue)
	viper.SetDefault(host.flagKey, host.defaultValue)
	viper.SetDefault(logLevel.flagKey, logLevel.defaultValue)
	viper.SetDefault(fps.flagKey, fps.defaultValue)
	viper.SetDefault(canvasWidth.flagKey, canvasWidth.defaultValue)
	viper.SetDefault(canvasHeight.flagKey, canvasHeight.defaultValue)
	viper.SetDefault(scenesLimit.flagKey, scenesLimit.defaultValue)
	viper.SetDefault(stepMs.flagKey, stepMs.defaultValue)
	viper.SetDefault(analyzerURL.flagKey, analyzerURL.defaultValue)
	viper.SetDefault(analyzerTimeout.flagKey, analyzerTimeout.defaultValue)
	viper.SetDefault(redisPort.flagKey, redisPort.defaultValue)
	viper.SetDefault(redisHost.flagKey, redisHost.defaultValue)
	viper.SetDefault(redisPassword.flagKey, redisPassword.defaultValue)

	config := &app.AppConfig{
		Host:            viper.GetString(host.flagKey),
		Port:            viper.GetInt(port.flagKey),
		LogLevel:        viper.GetString(logLevel.flagKey),
		FPS:             viper.GetInt(fps.flagKey),
		CanvasWidth:     viper.GetInt(canvasWidth.flagKey),
		CanvasHeight:    viper.GetInt(canvasHeight.flagKey),
		ScenesLimit:     viper.GetInt(scenesLimit.flagKey),
		StepMs:          viper.GetInt(stepMs.flagKey),
		AnalyzerURL:     viper.GetString(analyzerURL.flagKey),
		AnalyzerTimeout: viper.GetInt(analyzerTimeout.flagKey),
		RedisPort:       viper.GetInt(redisPort.flagKey),
		RedisHost:       viper.GetString(redisHost.flagKey),
		RedisPassword:   viper.GetString(redisPassword.flagKey),
	}

	return config
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	if err := appConfig.Validate(); err != nil {
		log.Fatal(err)
	}

	log.Fatal(app.Run(ctx, appConfig))
}

package utils

import (
  "os"
  "strconv"
  "github.com/careloop/careloop-backend/internal/logger"
)

// GetEnv reads a config value from the environment, falling back to
// defaultVal when the variable is unset. Every knob in this service is
// env-driven (DATABASE_URL, REDIS_ADDR, the AI provider keys), so the
// fallback path is logged at debug to make misconfigured deploys
// visible. A nil log is allowed for callers that run before logging
// is up.
func GetEnv(key, defaultVal string, log *logger.Logger) string {
  if log != nil {
    log = log.With("env_var", key)
  }
  val, ok := os.LookupEnv(key)
  if !ok {
    if log != nil {
      log.Debug("Env var unset, falling back to default", "default", defaultVal)
    }
    return defaultVal
  }
  if log != nil {
    log.Debug("Env var set", "value", val)
  }
  return val
}

// GetEnvAsInt is GetEnv for integer knobs (ports, token lifetimes).
// Unparseable values fall back to defaultVal rather than failing
// startup.
func GetEnvAsInt(key string, defaultVal int, log *logger.Logger) int {
  if log != nil {
    log = log.With("env_var", key)
  }
  valStr, ok := os.LookupEnv(key)
  if !ok {
    if log != nil {
      log.Debug("Env var unset, falling back to default", "default", defaultVal)
    }
    return defaultVal
  }
  i, err := strconv.Atoi(valStr)
  if err != nil {
    if log != nil {
      log.Debug("Env var is not an integer, falling back to default", "value", valStr, "default", defaultVal, "error", err)
    }
    return defaultVal
  }
  if log != nil {
    log.Debug("Env var set", "value", i)
  }
  return i
}

package config

// Persistent state keys (Registry)
const (
	KeyCameraSettings = "camera_settings"
	KeyUserFPS        = "user_fps"
)

package capture

import (
	"path/filepath"
	"sort"

	"github.com/blackjack/webcam"
)

// DeviceInfo describes one V4L2 capture device.
type DeviceInfo struct {
	Path    string
	Name    string
	Formats []string
	Err     error // set when the device exists but cannot be opened
}

// ListDevices enumerates /dev/video* nodes and reports the name and pixel
// formats of each one. Devices that cannot be opened are still listed so
// the user can see permission problems.
func ListDevices() ([]DeviceInfo, error) {
	paths, err := filepath.Glob("/dev/video*")
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	infos := make([]DeviceInfo, 0, len(paths))
	for _, path := range paths {
		infos = append(infos, probeDevice(path))
	}
	return infos, nil
}

func probeDevice(path string) DeviceInfo {
	info := DeviceInfo{Path: path}

	cam, err := webcam.Open(path)
	if err != nil {
		info.Err = openError(path, err)
		return info
	}
	defer cam.Close()

	if name, err := cam.GetName(); err == nil {
		info.Name = name
	}

	for _, desc := range cam.GetSupportedFormats() {
		info.Formats = append(info.Formats, desc)
	}
	sort.Strings(info.Formats)
	return info
}

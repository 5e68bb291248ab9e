package framebuffer

import (
	"os"
	"unsafe"

	"github.com/juju/errors"
	"golang.org/x/sys/unix"
)

func Open(path string) (*Framebuffer, error) {
	f, err := os.OpenFile(path, os.O_RDWR, os.ModeDevice)
	if err != nil {
		return nil, errors.Annotate(err, "open")
	}
	var finfo fixedScreenInfo
	var vinfo variableScreenInfo
	if err = ioctl(f.Fd(), getFixedScreenInfo, unsafe.Pointer(&finfo)); err != nil {
		f.Close()
		return nil, errors.Annotate(err, "getFixedScreenInfo")
	}
	if err = ioctl(f.Fd(), getVariableScreenInfo, unsafe.Pointer(&vinfo)); err != nil {
		f.Close()
		return nil, errors.Annotate(err, "getVariableScreenInfo")
	}
	fb, err := newFramebuffer(f, vinfo, finfo.Line_length)
	if err != nil {
		f.Close()
		return nil, errors.Annotatef(err, "framebuffer device=%s", path)
	}
	fb.closer = f
	return fb, nil
}

func ioctl(fd uintptr, cmd uintptr, data unsafe.Pointer) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, cmd, uintptr(data)); errno != 0 {
		return os.NewSyscallError("ioctl", errno)
	}
	return nil
}

package device

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// These mirror the stable Linux input-event-codes.h values used to probe a
// device's capability bitmasks; they are independent of whichever Go evdev
// binding is in use, so they're computed here rather than borrowed from one.
const (
	evKey = 0x01
	evAbs = 0x03

	btnTouch = 0x14a

	absMtPositionX = 0x35
	absMtPositionY = 0x36
)

type inputAbsInfo struct {
	Value, Minimum, Maximum, Fuzz, Flat, Resolution int32
}

// ioc reproduces asm-generic/ioctl.h's _IOC macro for the Linux ioctl
// request-number encoding: dir|size|type|nr packed into a single word.
func ioc(dir, typ, nr, size uintptr) uintptr {
	const (
		nrBits   = 8
		typeBits = 8
		sizeBits = 14
	)
	return dir<<(nrBits+typeBits+sizeBits) | size<<(nrBits+typeBits) | typ<<nrBits | nr
}

const iocRead = 2

func eviocgbit(evType int, size uintptr) uintptr {
	return ioc(iocRead, uintptr('E'), uintptr(0x20+evType), size)
}

func eviocgabs(axis uintptr) uintptr {
	return ioc(iocRead, uintptr('E'), 0x40+axis, unsafe.Sizeof(inputAbsInfo{}))
}

func ioctl(fd uintptr, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func testBit(bits []byte, n int) bool {
	return bits[n/8]&(1<<(uint(n)%8)) != 0
}

// isTouchpad reports whether the device at path reports BTN_TOUCH and
// declares both multitouch position axes, the same filter
// original_source/src/input.rs applies via evdev::enumerate.
func isTouchpad(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	keyBits := make([]byte, 96)
	if err := ioctl(f.Fd(), eviocgbit(evKey, uintptr(len(keyBits))), unsafe.Pointer(&keyBits[0])); err != nil {
		return false, err
	}
	if !testBit(keyBits, btnTouch) {
		return false, nil
	}

	absBits := make([]byte, 8)
	if err := ioctl(f.Fd(), eviocgbit(evAbs, uintptr(len(absBits))), unsafe.Pointer(&absBits[0])); err != nil {
		return false, err
	}
	return testBit(absBits, absMtPositionX) && testBit(absBits, absMtPositionY), nil
}

func readAbsInfo(fd uintptr, axis uintptr) (inputAbsInfo, error) {
	var info inputAbsInfo
	if err := ioctl(fd, eviocgabs(axis), unsafe.Pointer(&info)); err != nil {
		return inputAbsInfo{}, err
	}
	return info, nil
}

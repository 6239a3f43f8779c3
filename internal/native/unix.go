package native

import (
	"github.com/nativecapsule/nativecapsule/internal/output"
)

func (b *builder) buildUnix(out string) (string, error) {
	log := output.PlatformLogger("unix")
	log.Debug("Building native Unix app", "path", out)

	if err := b.writeExecutableJar(out, nil); err != nil {
		return "", err
	}

	log.Debug("Unix native app build complete")
	return out, nil
}

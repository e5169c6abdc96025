package zdp

import (
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/golog"
	"log"
)

func (p *Pipeline) WithGoLogger(parentLogger *log.Logger) {
	p.WithLogWrapLogger(logwrap.New(golog.Wrap(parentLogger)))
}

func (p *Pipeline) WithLogWrapLogger(lw logwrap.Logger) {
	p.logger = lw
	p.effects.logger = lw
}

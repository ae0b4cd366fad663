package pack

import "io"

type Option func(p *Packer)

func WithSourceDir(dir string) Option {
	return func(p *Packer) {
		p.src = dir
	}
}

func WithOutputDir(dir string) Option {
	return func(p *Packer) {
		p.out = dir
	}
}

// WithProgress redirects the archive progress bar.
func WithProgress(w io.Writer) Option {
	return func(p *Packer) {
		p.progress = w
	}
}

package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/xmsskit/xmssmt"

	"github.com/urfave/cli"
)

func cmdAlgs(c *cli.Context) error {
	for _, name := range xmssmt.ListNames() {
		ctx := xmssmt.NewContextFromName(name)
		if ctx == nil {
			continue
		}
		fmt.Printf("%s\n", ctx.Name())
	}
	return nil
}

func cmdKeygen(c *cli.Context) error {
	alg := c.Args().Get(0)
	path := c.Args().Get(1)
	if alg == "" || path == "" {
		return cli.NewExitError("usage: xmssmt keygen <alg> <path>", 1)
	}

	sk, pk, err := xmssmt.GenerateKeyPair(alg)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	ctr, err := xmssmt.OpenPrivateKeyContainer(path)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer ctr.Close()
	if err = ctr.Save(sk); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	pkBuf, merr := pk.MarshalText()
	if merr != nil {
		return cli.NewExitError(merr.Error(), 1)
	}
	fmt.Printf("%s\n", pkBuf)
	return nil
}

func cmdSign(c *cli.Context) error {
	path := c.Args().Get(0)
	msgPath := c.Args().Get(1)
	if path == "" || msgPath == "" {
		return cli.NewExitError("usage: xmssmt sign <keypath> <msgfile>", 1)
	}

	msg, rerr := ioutil.ReadFile(msgPath)
	if rerr != nil {
		return cli.NewExitError(rerr.Error(), 1)
	}

	ctr, err := xmssmt.OpenPrivateKeyContainer(path)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer ctr.Close()

	sk, _, err := ctr.Load()
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	sig, err := sk.Sign(msg)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	if err = ctr.Save(sk); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	sigBuf, merr := sig.MarshalBinary()
	if merr != nil {
		return cli.NewExitError(merr.Error(), 1)
	}
	os.Stdout.Write(sigBuf)
	return nil
}

func main() {
	app := cli.NewApp()
	app.Name = "xmssmt"
	app.Usage = "XMSS[MT] stateful hash-based signatures"

	app.Commands = []cli.Command{
		{
			Name:   "algs",
			Usage:  "List XMSS[MT] instances",
			Action: cmdAlgs,
		},
		{
			Name:   "keygen",
			Usage:  "Generate a keypair: keygen <alg> <path>",
			Action: cmdKeygen,
		},
		{
			Name:   "sign",
			Usage:  "Sign a file, printing the signature to stdout: sign <keypath> <msgfile>",
			Action: cmdSign,
		},
	}

	app.Run(os.Args)
}

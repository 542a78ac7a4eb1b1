package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"

	"github.com/LoveWonYoung/pcanbasic/driver"
	"github.com/LoveWonYoung/pcanbasic/logrecorder"
	"github.com/LoveWonYoung/pcanbasic/pcan"
)

func main() {
	channel := flag.String("channel", "usb1", "PCAN channel, e.g. usb1 or pcan_pcibus1")
	fd := flag.Bool("fd", false, "open the channel as CAN-FD")
	baud := flag.String("baud", "500k", "classic CAN baud rate")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rec, err := logrecorder.InitAndRotate(ctx, ".", "can_log_", logrecorder.RotateInterval, false)
	if err != nil {
		fmt.Println("日志初始化失败:", err)
		return
	}
	defer rec.Close()

	bus, err := pcan.ParseBus(*channel)
	if err != nil {
		fmt.Println(err)
		return
	}
	b, err := pcan.ParseBaudrate(*baud)
	if err != nil {
		fmt.Println(err)
		return
	}
	cfg := driver.PcanConfig{Bus: bus, CanType: driver.CAN, Baudrate: b}
	if *fd {
		cfg.CanType = driver.CANFD
		cfg.BitrateFD = pcan.Bitrate500K2M
	}

	// 1. 初始化CAN设备
	var canDevice driver.CANDriver = driver.NewPcanCan(cfg)
	if err := canDevice.Init(); err != nil {
		fmt.Println("CAN Init failed:", err)
		return
	}
	canDevice.Start()
	defer canDevice.Stop()

	// 2. 启动一个goroutine来处理接收到的CAN报文
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range canDevice.RxChan() {
			log.Info().
				Str("id", fmt.Sprintf("0x%03X", msg.ID)).
				Bool("fd", msg.IsFD).
				Str("data", fmt.Sprintf("% X", msg.Payload())).
				Msg("rx")
		}
		fmt.Println("接收通道已关闭。")
	}()

	fmt.Printf("CAN设备 %s 已启动，正在监听报文。按 Ctrl+C 退出。\n", bus)
	<-ctx.Done()
	canDevice.Stop()
	<-done
}

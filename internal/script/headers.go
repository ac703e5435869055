package script

// Shell fragments prepended to the generated scripts. Up headers capture
// the pre-VPN default gateway and stash it under /tmp; down headers read
// it back so the added routes can be torn down again.

const linuxUpHeader = `#!/bin/bash
export PATH="/bin:/sbin:/usr/sbin:/usr/bin"

OLDGW=$(ip route show | grep '^default' | sed -e 's/default via \([^ ]*\).*/\1/')

if [[ $OLDGW == '' ]]; then
    exit 0
fi

if [ ! -e /tmp/vpn_oldgw ]; then
    echo $OLDGW > /tmp/vpn_oldgw
fi

`

const linuxDownHeader = `#!/bin/bash
export PATH="/bin:/sbin:/usr/sbin:/usr/bin"

OLDGW=$(cat /tmp/vpn_oldgw)

`

const macUpHeader = `#!/bin/sh
export PATH="/bin:/sbin:/usr/sbin:/usr/bin"

OLDGW=$(netstat -nr | grep '^default' | grep -v 'ppp' | sed 's/default *\([0-9\.]*\) .*/\1/' | awk '{if($1){print $1}}')

if [ ! -e /tmp/pptp_oldgw ]; then
    echo "${OLDGW}" > /tmp/pptp_oldgw
fi

dscacheutil -flushcache

route add 10.0.0.0/8 "${OLDGW}"
route add 172.16.0.0/12 "${OLDGW}"
route add 192.168.0.0/16 "${OLDGW}"

`

const macDownHeader = `#!/bin/sh
export PATH="/bin:/sbin:/usr/sbin:/usr/bin"

if [ ! -e /tmp/pptp_oldgw ]; then
    exit 0
fi

OLDGW=$(cat /tmp/pptp_oldgw)

route delete 10.0.0.0/8 "${OLDGW}"
route delete 172.16.0.0/12 "${OLDGW}"
route delete 192.168.0.0/16 "${OLDGW}"
`

const androidUpHeader = `#!/bin/sh
alias netstat='/system/xbin/busybox netstat'
alias grep='/system/xbin/busybox grep'
alias awk='/system/xbin/busybox awk'
alias route='/system/xbin/busybox route'

OLDGW=$(netstat -rn | grep ^0\.0\.0\.0 | awk '{print $2}')

`

const androidDownHeader = `#!/bin/sh
alias route='/system/xbin/busybox route'

`

const windowsUpHeader = `for /F "tokens=3" %%* in ('route print ^| findstr "\<0.0.0.0\>"') do set "gw=%%*"

ipconfig /flushdns

`
